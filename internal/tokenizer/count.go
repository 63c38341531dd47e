package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/utils"
)

const (
	charactersPerGeminiToken = 4
	geminiTokenizerName      = "gemini-chars/4"
	decodeFailureText        = "content is not UTF-8 text"
)

// decodeText returns content as a string. Empty content decodes to the empty
// string; invalid UTF-8 or embedded NUL bytes wrap types.ErrDecode.
func decodeText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	if utils.IsBinary(content) {
		return "", fmt.Errorf("%w: %s", types.ErrDecode, decodeFailureText)
	}
	return string(content), nil
}

// geminiTokenizer estimates Gemini tokens as one token per four characters, rounded up.
type geminiTokenizer struct{}

func (geminiTokenizer) Name() string {
	return geminiTokenizerName
}

func (geminiTokenizer) Count(content []byte) (uint64, error) {
	text, decodeError := decodeText(content)
	if decodeError != nil {
		return 0, decodeError
	}
	characterCount := uint64(utf8.RuneCountInString(text))
	return (characterCount + charactersPerGeminiToken - 1) / charactersPerGeminiToken, nil
}
