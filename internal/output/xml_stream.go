package output

import (
	"fmt"
	"io"

	"github.com/temirov/summarize/internal/types"
)

const (
	documentsOpenTag       = "<documents>"
	documentsCloseTag      = "</documents>"
	documentOpenFormat     = `<document index="%d">`
	documentCloseTag       = "</document>"
	sourceFormat           = "<source>%s</source>"
	documentContentOpenTag = "<document_content>"
	documentContentClose   = "</document_content>"
)

type xmlStreamRenderer struct {
	stdout      io.Writer
	lineNumbers bool
	started     bool
	index       int
}

// NewXMLStreamRenderer renders documents in the Claude XML prompt layout.
// Content is written verbatim so that prompts keep source text intact.
func NewXMLStreamRenderer(stdout io.Writer, lineNumbers bool) StreamRenderer {
	return &xmlStreamRenderer{stdout: stdout, lineNumbers: lineNumbers}
}

func (renderer *xmlStreamRenderer) ensureStarted() error {
	if renderer.started {
		return nil
	}
	renderer.started = true
	return writeLines(renderer.stdout, documentsOpenTag)
}

func (renderer *xmlStreamRenderer) Handle(document types.Document) error {
	if err := renderer.ensureStarted(); err != nil {
		return err
	}
	renderer.index++
	return writeLines(renderer.stdout,
		fmt.Sprintf(documentOpenFormat, renderer.index),
		fmt.Sprintf(sourceFormat, document.DisplayPath),
		documentContentOpenTag,
		documentBody(document, renderer.lineNumbers),
		documentContentClose,
		documentCloseTag,
	)
}

func (renderer *xmlStreamRenderer) Flush() error {
	if err := renderer.ensureStarted(); err != nil {
		return err
	}
	return writeLines(renderer.stdout, documentsCloseTag)
}
