// Package output renders concatenated documents and token reports.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/summarize/internal/types"
)

const (
	errorUnknownFormat = "unknown output format %q (expected %s, %s or %s)"
	lineNumberFormat   = "%*d  %s"
	newline            = "\n"
	carriageReturn     = "\r"
)

// StreamRenderer writes documents as they arrive and closes any envelope on Flush.
type StreamRenderer interface {
	Handle(document types.Document) error
	Flush() error
}

// NewStreamRenderer returns the renderer for format. Unknown formats wrap types.ErrConfig.
func NewStreamRenderer(format string, stdout io.Writer, lineNumbers bool) (StreamRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", types.FormatDefault:
		return NewRawStreamRenderer(stdout, lineNumbers), nil
	case types.FormatMarkdown:
		return NewMarkdownStreamRenderer(stdout, lineNumbers), nil
	case types.FormatXML:
		return NewXMLStreamRenderer(stdout, lineNumbers), nil
	default:
		return nil, types.ConfigErrorf(errorUnknownFormat, format, types.FormatDefault, types.FormatMarkdown, types.FormatXML)
	}
}

// AddLineNumbers prefixes every line with its right-aligned 1-based number.
// Line endings are normalized to "\n" and a trailing newline is dropped.
func AddLineNumbers(content string) string {
	lines := splitLines(content)
	width := len(fmt.Sprint(len(lines)))
	numbered := make([]string, len(lines))
	for index, line := range lines {
		numbered[index] = fmt.Sprintf(lineNumberFormat, width, index+1, line)
	}
	return strings.Join(numbered, newline)
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(content, newline), newline)
	for index, line := range lines {
		lines[index] = strings.TrimSuffix(line, carriageReturn)
	}
	return lines
}

func documentBody(document types.Document, lineNumbers bool) string {
	if lineNumbers {
		return AddLineNumbers(document.Content)
	}
	return document.Content
}

// writeLines writes each line followed by a newline.
func writeLines(writer io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := io.WriteString(writer, line+newline); err != nil {
			return err
		}
	}
	return nil
}
