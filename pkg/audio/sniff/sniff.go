// Package sniff classifies uploaded byte buffers by format. Mobile clients
// report MIME types unreliably, so detection works from the bytes first and
// falls back to the filename extension only for formats with no usable
// signature here.
package sniff

import (
	"path/filepath"
	"strings"
)

// AMRMagic is the signature every AMR-NB stream starts with.
const AMRMagic = "#!AMR\n"

// Kind is the coarse classification of an uploaded buffer.
type Kind string

const (
	KindAMR   Kind = "amr"
	KindISO   Kind = "iso-container"
	KindOther Kind = "other"
)

// IsAMR reports whether buf starts with the raw AMR magic string.
func IsAMR(buf []byte) bool {
	return len(buf) >= len(AMRMagic) && string(buf[:len(AMRMagic)]) == AMRMagic
}

// IsISOContainer reports whether buf looks like an ISO base media file
// (MP4/3GP family): bytes [4,8) spell "ftyp".
func IsISOContainer(buf []byte) bool {
	return len(buf) >= 8 && string(buf[4:8]) == "ftyp"
}

// Detect classifies buf. The two signature checks are mutually exclusive:
// an AMR stream cannot also carry an ftyp box at offset 4.
func Detect(buf []byte) Kind {
	switch {
	case IsAMR(buf):
		return KindAMR
	case IsISOContainer(buf):
		return KindISO
	default:
		return KindOther
	}
}

// Brand returns the major brand of an ISO container (bytes [8,12)), or ""
// when the buffer is too short.
func Brand(buf []byte) string {
	if len(buf) < 12 {
		return ""
	}
	return string(buf[8:12])
}

// mimeByExtension covers the recording formats mobile clients actually
// produce. Anything unknown falls back to audio/mpeg, which the
// transcription backends accept as a generic audio type.
var mimeByExtension = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".3gp":  "audio/3gpp",
	".3gpp": "audio/3gpp",
	".amr":  "audio/amr",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".webm": "audio/webm",
	".flac": "audio/flac",
	".aac":  "audio/aac",
}

const defaultMIMEType = "audio/mpeg"

// MIMEFromFilename infers a MIME type from the filename extension.
func MIMEFromFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mimeType, ok := mimeByExtension[ext]; ok {
		return mimeType
	}
	return defaultMIMEType
}
