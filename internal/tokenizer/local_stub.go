//go:build !hftokenizer

package tokenizer

import "github.com/temirov/summarize/internal/types"

const (
	localBuildTag               = "hftokenizer"
	errorLocalUnavailableFormat = "the local tokenizer family is not built in; rebuild with -tags %s to load %s"
)

func newLocalTokenizer(tokenizerFile string) (Tokenizer, error) {
	return nil, types.ConfigErrorf(errorLocalUnavailableFormat, localBuildTag, tokenizerFile)
}
