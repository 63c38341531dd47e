// Package tokenizer converts file content into token counts for a model family.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/temirov/summarize/internal/types"
)

// Tokenizer counts tokens in UTF-8 file content. Implementations are
// deterministic and safe for concurrent use; only empty content yields zero.
type Tokenizer interface {
	Name() string
	Count(content []byte) (uint64, error)
}

// Family groups models that share one tokenization scheme.
type Family string

const (
	FamilyGPT    Family = "gpt"
	FamilyClaude Family = "claude"
	FamilyGemini Family = "gemini"
	FamilyLocal  Family = "local"
)

// Config captures tokenizer registry parameters provided by the CLI.
type Config struct {
	LocalTokenizerFile string
	CacheSize          int
	Pricing            map[string]Pricing
}

const (
	defaultEncodingName = "cl100k_base"
	claudeEncodingName  = "p50k_base"

	errorUnknownFamilyFormat = "unsupported tokenizer family %q"
	errorLocalFileMissing    = "the local tokenizer family requires a tokenizer.json file"
	errorEncodingFormat      = "initialize %s encoding: %w"
)

func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// New builds the tokenizer for model without caching.
func New(model Model, localTokenizerFile string) (Tokenizer, error) {
	switch model.Family {
	case FamilyGPT:
		return newGPTTokenizer(model.ProviderModel)
	case FamilyClaude:
		return newEncodingTokenizer(claudeEncodingName)
	case FamilyGemini:
		return geminiTokenizer{}, nil
	case FamilyLocal:
		if strings.TrimSpace(localTokenizerFile) == "" {
			return nil, types.ConfigErrorf(errorLocalFileMissing)
		}
		return newLocalTokenizer(localTokenizerFile)
	default:
		return nil, types.ConfigErrorf(errorUnknownFamilyFormat, model.Family)
	}
}

// newGPTTokenizer selects the encoding tiktoken associates with the model and
// falls back to cl100k_base for models it does not know.
func newGPTTokenizer(providerModel string) (Tokenizer, error) {
	encoding, encodingError := tiktoken.EncodingForModel(strings.ToLower(providerModel))
	if encodingError == nil && encoding != nil {
		return tiktokenTokenizer{encoding: encoding, name: encodingNameForModel(providerModel)}, nil
	}
	return newEncodingTokenizer(defaultEncodingName)
}

func newEncodingTokenizer(encodingName string) (Tokenizer, error) {
	encoding, encodingError := tiktoken.GetEncoding(encodingName)
	if encodingError != nil {
		return nil, fmt.Errorf(errorEncodingFormat, encodingName, encodingError)
	}
	return tiktokenTokenizer{encoding: encoding, name: encodingName}, nil
}

func encodingNameForModel(providerModel string) string {
	if encodingName, known := tiktoken.MODEL_TO_ENCODING[strings.ToLower(providerModel)]; known {
		return encodingName
	}
	bestPrefix := ""
	bestEncoding := defaultEncodingName
	for prefix, encodingName := range tiktoken.MODEL_PREFIX_TO_ENCODING {
		if strings.HasPrefix(strings.ToLower(providerModel), prefix) && len(prefix) > len(bestPrefix) {
			bestPrefix = prefix
			bestEncoding = encodingName
		}
	}
	return bestEncoding
}
