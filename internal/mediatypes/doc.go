// Package mediatypes provides extension-based classification of media files
// (audio, video, image) and MIME type lookup.
//
// Classification is purely name-based; no file contents are inspected. The
// artwork pipeline uses it to decide which directory siblings are eligible
// to have cover art attached.
package mediatypes
