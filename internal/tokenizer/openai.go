package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

const errorNilEncoder = "nil tiktoken encoder"

// tiktokenTokenizer counts BPE tokens. It serves the GPT family with the
// model's own encoding and approximates the Claude family with p50k_base.
type tiktokenTokenizer struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (tokenizer tiktokenTokenizer) Name() string {
	return tokenizer.name
}

func (tokenizer tiktokenTokenizer) Count(content []byte) (uint64, error) {
	text, decodeError := decodeText(content)
	if decodeError != nil || text == "" {
		return 0, decodeError
	}
	if tokenizer.encoding == nil {
		return 0, errors.New(errorNilEncoder)
	}
	tokenIDs := tokenizer.encoding.Encode(text, nil, nil)
	return uint64(len(tokenIDs)), nil
}
