package mediatypes

import (
	"os"
	"path/filepath"
	"strings"
)

// FileKind represents the classification of a directory entry.
type FileKind string

const (
	// KindFolder represents a directory.
	KindFolder FileKind = "folder"
	// KindAudio represents an audio file.
	KindAudio FileKind = "audio"
	// KindVideo represents a video file.
	KindVideo FileKind = "video"
	// KindImage represents an image file.
	KindImage FileKind = "image"
	// KindOther represents an unknown or unsupported file type.
	KindOther FileKind = "other"
)

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".aac":  true,
	".wav":  true,
	".wma":  true,
	".opus": true,
	".ape":  true,
	".mpc":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Audio
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".wav":  "audio/wav",
	".wma":  "audio/x-ms-wma",
	".opus": "audio/opus",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",

	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
}

// ext returns the lowercased extension of a file name, including the dot.
func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsAudio reports whether the file name has a supported audio extension.
func IsAudio(name string) bool {
	return AudioExtensions[ext(name)]
}

// IsVideo reports whether the file name has a supported video extension.
func IsVideo(name string) bool {
	return VideoExtensions[ext(name)]
}

// IsImage reports whether the file name has a supported image extension.
func IsImage(name string) bool {
	return ImageExtensions[ext(name)]
}

// KindOf returns the FileKind for a file name based on its extension.
// Returns KindOther if the extension is not recognized.
func KindOf(name string) FileKind {
	e := ext(name)
	switch {
	case AudioExtensions[e]:
		return KindAudio
	case VideoExtensions[e]:
		return KindVideo
	case ImageExtensions[e]:
		return KindImage
	default:
		return KindOther
	}
}

// Classify returns the FileKind of a directory entry, treating directories
// as KindFolder and symlinks by their target name only.
func Classify(entry os.DirEntry) FileKind {
	if entry.IsDir() {
		return KindFolder
	}
	return KindOf(entry.Name())
}

// GetMimeType returns the MIME type for a given file name.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(name string) string {
	if mime, ok := MimeTypes[ext(name)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile reports whether the name is a supported audio or video file,
// the set of files eligible to have cover art attached.
func IsMediaFile(name string) bool {
	k := KindOf(name)
	return k == KindAudio || k == KindVideo
}
