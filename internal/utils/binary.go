package utils

import (
	"bytes"
	"unicode/utf8"
)

// IsBinary reports whether data cannot be treated as UTF-8 text: it contains
// a NUL byte or an invalid UTF-8 sequence. Empty data is text.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}
