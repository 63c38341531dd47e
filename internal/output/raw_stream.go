package output

import (
	"io"

	"github.com/temirov/summarize/internal/types"
)

const separatorLine = "---"

type rawStreamRenderer struct {
	stdout      io.Writer
	lineNumbers bool
}

// NewRawStreamRenderer renders each document as its path, a separator line,
// the content, a blank line and a closing separator.
func NewRawStreamRenderer(stdout io.Writer, lineNumbers bool) StreamRenderer {
	return &rawStreamRenderer{stdout: stdout, lineNumbers: lineNumbers}
}

func (renderer *rawStreamRenderer) Handle(document types.Document) error {
	return writeLines(renderer.stdout,
		document.DisplayPath,
		separatorLine,
		documentBody(document, renderer.lineNumbers),
		"",
		separatorLine,
	)
}

func (renderer *rawStreamRenderer) Flush() error {
	return nil
}
