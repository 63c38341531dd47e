// Package clipboard copies summarize results to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const errorWriteFormat = "write %d bytes to clipboard: %w"

// ErrUnavailable reports that no clipboard utility exists on this system.
var ErrUnavailable = errors.New("system clipboard is unavailable")

// Copier copies a rendered result to the clipboard.
type Copier interface {
	Copy(text string) error
}

// Service copies through github.com/atotto/clipboard.
type Service struct {
	unsupported func() bool
	write       func(string) error
}

// NewService returns a Service bound to the system clipboard.
func NewService() *Service {
	return &Service{
		unsupported: func() bool { return clipboard.Unsupported },
		write:       clipboard.WriteAll,
	}
}

// Copy writes text to the clipboard. Empty text is not copied.
func (service *Service) Copy(text string) error {
	if text == "" {
		return nil
	}
	if service.unsupported() {
		return ErrUnavailable
	}
	if err := service.write(text); err != nil {
		return fmt.Errorf(errorWriteFormat, len(text), err)
	}
	return nil
}

var _ Copier = (*Service)(nil)
