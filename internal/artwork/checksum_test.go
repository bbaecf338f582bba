package artwork

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChecksumKnownValues(t *testing.T) {
	tests := []struct {
		data []byte
		want uint32
	}{
		{nil, 5381},
		{[]byte{}, 5381},
		{[]byte("a"), 177670},
		{[]byte("abc"), 193485963},
	}
	for _, tt := range tests {
		if got := Checksum(tt.data); got != tt.want {
			t.Errorf("Checksum(%q) = %d, want %d", tt.data, got, tt.want)
		}
	}
}

func TestChecksumContentSensitivity(t *testing.T) {
	a := Checksum([]byte("cover art bytes"))
	b := Checksum([]byte("cover art byteX"))
	if a == b {
		t.Error("Different content hashed to the same checksum")
	}
	if a != Checksum([]byte("cover art bytes")) {
		t.Error("Checksum is not deterministic")
	}
}

func TestChecksumFileMatchesBlob(t *testing.T) {
	// Larger than the streaming buffer so multiple reads are exercised.
	data := make([]byte, 100*1024)
	for i := range data {
		data[i] = byte(i * 7)
	}

	path := filepath.Join(t.TempDir(), "art.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := ChecksumFile(path)
	if err != nil {
		t.Fatalf("ChecksumFile failed: %v", err)
	}
	if want := Checksum(data); got != want {
		t.Errorf("ChecksumFile = %d, Checksum = %d", got, want)
	}
}

func TestChecksumFileMissing(t *testing.T) {
	if _, err := ChecksumFile(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("ChecksumFile for missing file should fail")
	}
}
