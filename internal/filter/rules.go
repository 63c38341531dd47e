package filter

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	hiddenPrefix           = "."
	directorySuffix        = "/"
	currentDirectoryName   = "."
	parentDirectoryName    = ".."
	RuleVersionControl     = "vcs"
	RuleHidden             = "hidden"
	RuleIgnorePattern      = "ignore_pattern"
	RuleExtensionAllowList = "extension"
)

var versionControlDirectoryNames = map[string]struct{}{
	".git": {},
	".svn": {},
	".hg":  {},
}

// Decision is the outcome of evaluating an entry.
type Decision int

const (
	Include Decision = iota
	Exclude
)

func (decision Decision) String() string {
	if decision == Exclude {
		return "exclude"
	}
	return "include"
}

// Entry describes one filesystem object as seen by the rules.
type Entry struct {
	Name           string
	RelativePath   string
	IsDirectory    bool
	IsHidden       bool
	IsVCSDirectory bool
}

// NewEntry derives the hidden and version-control flags from the entry name.
// relativePath is slash separated and relative to the walk root.
func NewEntry(relativePath string, isDirectory bool) Entry {
	normalized := filepath.ToSlash(relativePath)
	name := normalized
	if separatorIndex := strings.LastIndex(normalized, directorySuffix); separatorIndex >= 0 {
		name = normalized[separatorIndex+1:]
	}
	_, isVCSName := versionControlDirectoryNames[name]
	return Entry{
		Name:           name,
		RelativePath:   normalized,
		IsDirectory:    isDirectory,
		IsHidden:       isHiddenName(name),
		IsVCSDirectory: isDirectory && isVCSName,
	}
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, hiddenPrefix) && name != currentDirectoryName && name != parentDirectoryName
}

// Rule reports whether it excludes the entry under config.
type Rule struct {
	Name     string
	Excludes func(entry Entry, config Config) bool
}

// Verdict is a Decision together with the rule that produced an exclusion.
type Verdict struct {
	Decision Decision
	Rule     string
}

var (
	versionControlRule = Rule{Name: RuleVersionControl, Excludes: excludesVersionControl}
	hiddenRule         = Rule{Name: RuleHidden, Excludes: excludesHidden}
	ignorePatternRule  = Rule{Name: RuleIgnorePattern, Excludes: excludesIgnorePattern}
	extensionRule      = Rule{Name: RuleExtensionAllowList, Excludes: excludesExtension}

	// walkRules is the precedence order for entries found while walking.
	walkRules = []Rule{versionControlRule, hiddenRule, ignorePatternRule, extensionRule}
	// rootFileRules applies to a root argument that is itself a file.
	rootFileRules = []Rule{ignorePatternRule, extensionRule}
)

// Evaluate applies every rule in precedence order and returns the decision.
func Evaluate(entry Entry, config Config) Decision {
	return Explain(entry, config).Decision
}

// Explain is Evaluate that also names the first excluding rule.
func Explain(entry Entry, config Config) Verdict {
	return evaluateRules(walkRules, entry, config)
}

// EvaluateRootFile applies only the ignore-pattern and extension rules, the
// checks a file passed directly as a root must still satisfy.
func EvaluateRootFile(entry Entry, config Config) Decision {
	return evaluateRules(rootFileRules, entry, config).Decision
}

func evaluateRules(rules []Rule, entry Entry, config Config) Verdict {
	for _, rule := range rules {
		if rule.Excludes(entry, config) {
			return Verdict{Decision: Exclude, Rule: rule.Name}
		}
	}
	return Verdict{Decision: Include}
}

func excludesVersionControl(entry Entry, config Config) bool {
	return entry.IsVCSDirectory && !config.includeVCS
}

func excludesHidden(entry Entry, config Config) bool {
	return entry.IsHidden && !config.includeHidden
}

func excludesIgnorePattern(entry Entry, config Config) bool {
	if entry.IsDirectory && config.ignoreFilesOnly {
		return false
	}
	return MatchesAny(config.ignorePatterns, entry)
}

func excludesExtension(entry Entry, config Config) bool {
	if entry.IsDirectory {
		return false
	}
	return !config.AllowsExtension(FileExtension(entry.Name))
}

// MatchesAny reports whether any glob matches the entry name or relative path.
// Directories are also tried with a trailing slash so "build/" style patterns
// only hit directories.
func MatchesAny(patterns []string, entry Entry) bool {
	if len(patterns) == 0 {
		return false
	}
	candidates := []string{entry.Name, entry.RelativePath}
	if entry.IsDirectory {
		candidates = append(candidates, entry.Name+directorySuffix, entry.RelativePath+directorySuffix)
	}
	for _, pattern := range patterns {
		for _, candidate := range candidates {
			if candidate == "" || candidate == directorySuffix {
				continue
			}
			matched, matchError := doublestar.Match(pattern, candidate)
			if matchError == nil && matched {
				return true
			}
		}
	}
	return false
}

// FileExtension returns the extension of name without the leading dot.
func FileExtension(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), extensionSeparator)
}
