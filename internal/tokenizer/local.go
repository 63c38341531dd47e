//go:build hftokenizer

package tokenizer

import (
	"fmt"
	"path/filepath"
	"sync"

	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const (
	localTokenizerNamePrefix = "local:"
	errorLoadLocalFormat     = "load tokenizer from %s: %w"
	errorEncodeLocalFormat   = "encode with %s: %w"
)

// localTokenizer wraps a HuggingFace tokenizer.json loaded from disk. The
// sugarme/tokenizer package creates a cache directory and logs from its init,
// so it is linked only into builds tagged hftokenizer.
type localTokenizer struct {
	mutex     sync.Mutex
	tokenizer *hf.Tokenizer
	name      string
}

func newLocalTokenizer(tokenizerFile string) (Tokenizer, error) {
	loaded, loadError := pretrained.FromFile(tokenizerFile)
	if loadError != nil {
		return nil, fmt.Errorf(errorLoadLocalFormat, tokenizerFile, loadError)
	}
	return &localTokenizer{tokenizer: loaded, name: localTokenizerNamePrefix + filepath.Base(tokenizerFile)}, nil
}

func (tokenizer *localTokenizer) Name() string {
	return tokenizer.name
}

func (tokenizer *localTokenizer) Count(content []byte) (uint64, error) {
	text, decodeError := decodeText(content)
	if decodeError != nil || text == "" {
		return 0, decodeError
	}

	tokenizer.mutex.Lock()
	encoding, encodeError := tokenizer.tokenizer.EncodeSingle(text)
	tokenizer.mutex.Unlock()
	if encodeError != nil {
		return 0, fmt.Errorf(errorEncodeLocalFormat, tokenizer.name, encodeError)
	}

	// Normalizers may strip whitespace-only input; non-empty input still costs a token.
	if len(encoding.Ids) == 0 {
		return 1, nil
	}
	return uint64(len(encoding.Ids)), nil
}
