package ui

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileType detects a file's type from its content. Directories and
// unreadable files return "".
func FileType(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	if ext := mtype.Extension(); ext != "" {
		return strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	// No extension known; fall back to the MIME subtype, e.g. "octet-stream"
	mime := mtype.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		mime = mime[i+1:]
	}
	return mime
}
