package summary

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
)

const (
	environmentFileName = ".env"

	GoogleAPIKeyVariable    = "GOOGLE_API_KEY"
	OpenAIAPIKeyVariable    = "OPENAI_API_KEY"
	AnthropicAPIKeyVariable = "ANTHROPIC_API_KEY"

	errorLoadEnvironmentFormat = "load %s: %v"
	errorNoAPIKeyFormat        = "no API key for model %q: pass --api-key, --api-key-env or set %s"
	errorEmptyVariableFormat   = "environment variable %s is not set"
)

// KeySource describes where an API key may come from, highest priority first.
type KeySource struct {
	Explicit            string
	EnvironmentVariable string
}

// LoadEnvironmentFiles loads .env from workingDirectory and then from
// homeDirectory. Variables already present in the environment are kept, so
// the working directory file takes precedence over the home file.
func LoadEnvironmentFiles(workingDirectory string, homeDirectory string) error {
	for _, directory := range []string{workingDirectory, homeDirectory} {
		if directory == "" {
			continue
		}
		environmentPath := filepath.Join(directory, environmentFileName)
		if loadError := godotenv.Load(environmentPath); loadError != nil {
			if errors.Is(loadError, fs.ErrNotExist) {
				continue
			}
			return types.ConfigErrorf(errorLoadEnvironmentFormat, environmentPath, loadError)
		}
	}
	return nil
}

// ProviderKeyVariable names the conventional environment variable for family.
func ProviderKeyVariable(family tokenizer.Family) string {
	switch family {
	case tokenizer.FamilyGPT:
		return OpenAIAPIKeyVariable
	case tokenizer.FamilyClaude:
		return AnthropicAPIKeyVariable
	default:
		return GoogleAPIKeyVariable
	}
}

// ResolveAPIKey applies the lookup order: explicit key, named variable,
// then the provider variable for the model family.
func ResolveAPIKey(model tokenizer.Model, source KeySource) (string, error) {
	if explicit := strings.TrimSpace(source.Explicit); explicit != "" {
		return explicit, nil
	}
	if variable := strings.TrimSpace(source.EnvironmentVariable); variable != "" {
		if value := strings.TrimSpace(os.Getenv(variable)); value != "" {
			return value, nil
		}
		return "", types.ConfigErrorf(errorEmptyVariableFormat, variable)
	}
	providerVariable := ProviderKeyVariable(model.Family)
	if value := strings.TrimSpace(os.Getenv(providerVariable)); value != "" {
		return value, nil
	}
	return "", types.ConfigErrorf(errorNoAPIKeyFormat, model.Identifier, providerVariable)
}
