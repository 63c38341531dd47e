package output

import (
	"io"
	"path"
	"strings"

	"github.com/temirov/summarize/internal/types"
)

const (
	minimumFence = "```"
	fenceRune    = "`"
)

var extensionToLanguage = map[string]string{
	"py":   "python",
	"c":    "c",
	"cpp":  "cpp",
	"h":    "c",
	"hpp":  "cpp",
	"java": "java",
	"js":   "javascript",
	"ts":   "typescript",
	"html": "html",
	"css":  "css",
	"xml":  "xml",
	"json": "json",
	"yaml": "yaml",
	"yml":  "yaml",
	"sh":   "bash",
	"rb":   "ruby",
	"rs":   "rust",
	"go":   "go",
	"md":   "markdown",
	"toml": "toml",
}

type markdownStreamRenderer struct {
	stdout      io.Writer
	lineNumbers bool
}

// NewMarkdownStreamRenderer renders each document as its path followed by a
// fenced code block tagged with the language guessed from the extension.
func NewMarkdownStreamRenderer(stdout io.Writer, lineNumbers bool) StreamRenderer {
	return &markdownStreamRenderer{stdout: stdout, lineNumbers: lineNumbers}
}

func (renderer *markdownStreamRenderer) Handle(document types.Document) error {
	fence := FenceFor(document.Content)
	return writeLines(renderer.stdout,
		document.DisplayPath,
		fence+LanguageFor(document.DisplayPath),
		documentBody(document, renderer.lineNumbers),
		fence,
	)
}

func (renderer *markdownStreamRenderer) Flush() error {
	return nil
}

// FenceFor returns the shortest backtick fence, at least three long, that
// does not occur in content.
func FenceFor(content string) string {
	fence := minimumFence
	for strings.Contains(content, fence) {
		fence += fenceRune
	}
	return fence
}

// LanguageFor maps a file path to a Markdown code block language, or "".
func LanguageFor(displayPath string) string {
	extension := strings.TrimPrefix(path.Ext(displayPath), ".")
	return extensionToLanguage[extension]
}
