package types

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks contradictory or invalid configuration. Fatal before traversal.
	ErrConfig = errors.New("configuration error")
	// ErrTraversal marks a skipped directory, ignore file or symlink. Never fatal.
	ErrTraversal = errors.New("traversal warning")
	// ErrFileRead marks a selected file that could not be opened or read.
	ErrFileRead = errors.New("file read error")
	// ErrDecode marks content that is not valid text for the tokenizer.
	ErrDecode = errors.New("decode error")
	// ErrFatalIO marks an environment failure that terminates the run.
	ErrFatalIO = errors.New("fatal I/O error")
)

// ErrorKind names the category of a per-file failure.
type ErrorKind string

const (
	ErrorKindNone     ErrorKind = ""
	ErrorKindFileRead ErrorKind = "file_read"
	ErrorKindDecode   ErrorKind = "decode"
	ErrorKindTokenize ErrorKind = "tokenize"
)

// ConfigErrorf wraps a formatted message with ErrConfig.
func ConfigErrorf(format string, arguments ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, arguments...))
}

// ClassifyError maps a per-file error to its ErrorKind.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrDecode):
		return ErrorKindDecode
	case errors.Is(err, ErrFileRead):
		return ErrorKindFileRead
	default:
		return ErrorKindTokenize
	}
}

// WarningKindFor maps an ErrorKind to the warning reported for it.
func WarningKindFor(kind ErrorKind) WarningKind {
	switch kind {
	case ErrorKindDecode:
		return WarningDecode
	case ErrorKindFileRead:
		return WarningFileRead
	default:
		return WarningTokenize
	}
}
