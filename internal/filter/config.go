// Package filter decides whether a single filesystem entry is included in a run.
// Every rule is a pure function of the entry and the configuration so the
// package never touches the filesystem.
package filter

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/summarize/internal/types"
)

const (
	extensionSeparator       = "."
	invalidIgnorePatternText = "invalid ignore pattern %q"
	emptyIgnorePatternText   = "ignore pattern must not be empty"
)

// Options carries raw filter settings as parsed from flags or configuration.
type Options struct {
	Extensions      []string
	IgnorePatterns  []string
	IncludeHidden   bool
	IgnoreGitignore bool
	IncludeVCS      bool
	IgnoreFilesOnly bool
}

// Config is the validated, immutable filter configuration shared by the walker
// and every worker. Construct it with NewConfig.
type Config struct {
	extensions      map[string]struct{}
	ignorePatterns  []string
	includeHidden   bool
	ignoreGitignore bool
	includeVCS      bool
	ignoreFilesOnly bool
}

// NewConfig validates options and returns the corresponding Config.
// Invalid glob patterns are reported as types.ErrConfig.
func NewConfig(options Options) (Config, error) {
	extensions := make(map[string]struct{}, len(options.Extensions))
	for _, rawExtension := range options.Extensions {
		normalized := NormalizeExtension(rawExtension)
		if normalized == "" {
			continue
		}
		extensions[normalized] = struct{}{}
	}

	ignorePatterns := make([]string, 0, len(options.IgnorePatterns))
	for _, rawPattern := range options.IgnorePatterns {
		pattern := strings.TrimSpace(rawPattern)
		if pattern == "" {
			return Config{}, types.ConfigErrorf(emptyIgnorePatternText)
		}
		if !doublestar.ValidatePattern(pattern) {
			return Config{}, types.ConfigErrorf(invalidIgnorePatternText, pattern)
		}
		ignorePatterns = append(ignorePatterns, pattern)
	}

	return Config{
		extensions:      extensions,
		ignorePatterns:  ignorePatterns,
		includeHidden:   options.IncludeHidden,
		ignoreGitignore: options.IgnoreGitignore,
		includeVCS:      options.IncludeVCS,
		ignoreFilesOnly: options.IgnoreFilesOnly,
	}, nil
}

// NormalizeExtension strips whitespace and a leading dot.
func NormalizeExtension(extension string) string {
	return strings.TrimPrefix(strings.TrimSpace(extension), extensionSeparator)
}

// Extensions returns the allowed extensions in sorted order.
func (config Config) Extensions() []string {
	extensions := make([]string, 0, len(config.extensions))
	for extension := range config.extensions {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

// IgnorePatterns returns a copy of the ignore globs in their original order.
func (config Config) IgnorePatterns() []string {
	return append([]string(nil), config.ignorePatterns...)
}

// AllowsExtension reports whether extension passes the allow-list.
func (config Config) AllowsExtension(extension string) bool {
	if len(config.extensions) == 0 {
		return true
	}
	_, allowed := config.extensions[extension]
	return allowed
}

func (config Config) IncludeHidden() bool { return config.includeHidden }
func (config Config) IgnoreGitignore() bool { return config.ignoreGitignore }
func (config Config) IncludeVCS() bool { return config.includeVCS }
func (config Config) IgnoreFilesOnly() bool { return config.ignoreFilesOnly }
