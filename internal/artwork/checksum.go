package artwork

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// Checksum computes the DJB hash of a byte sequence. It is the dedup key
// for stored originals: fast, deterministic, and non-cryptographic.
func Checksum(data []byte) uint32 {
	h := uint32(5381)
	for _, b := range data {
		h = h*33 + uint32(b)
	}
	return h
}

// ChecksumFile computes the DJB hash of a file's contents, streaming so
// large images are never held in memory just for hashing.
func ChecksumFile(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := uint32(5381)
	r := bufio.NewReader(f)
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			h = h*33 + uint32(b)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	return h, nil
}
