// Package gitignore indexes .gitignore and .ignore files lazily as directories
// are visited and answers whether a path is ignored with directory-scoped
// precedence.
package gitignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gitignorefmt "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/summarize/internal/types"
)

const (
	// FileName is the ignore file consulted in every visited directory.
	FileName = ".gitignore"
	// LocalFileName holds ignore rules outside version control and overrides FileName.
	LocalFileName = ".ignore"
	// RepositoryMarker identifies the root of a git working tree.
	RepositoryMarker = ".git"

	commentPrefix     = "#"
	negationPrefix    = "!"
	pathSeparator     = "/"
	trailingSpaceSet  = " \t\r"
	readFailureFormat = "reading %s: %v"
	excludeFilePath   = "info/exclude"
)

// Rule is one parsed line of a .gitignore file.
type Rule struct {
	Pattern string
	Negated bool
}

type directoryRules struct {
	own        []Rule
	cumulative []gitignorefmt.Pattern
	matcher    gitignorefmt.Matcher
}

// Index holds the rules of every directory entered so far. Rules of deeper
// directories are appended after those of their ancestors, so the nearest
// .gitignore is evaluated last and wins.
type Index struct {
	disabled    bool
	mutex       sync.RWMutex
	directories map[string]*directoryRules
}

// NewIndex returns an Index. A disabled index never reads a file and reports
// every path as not ignored.
func NewIndex(disabled bool) *Index {
	return &Index{disabled: disabled, directories: map[string]*directoryRules{}}
}

// Disabled reports whether the index short-circuits every lookup.
func (index *Index) Disabled() bool {
	return index.disabled
}

// Enter loads the ignore rules of directory once: .git/info/exclude when the
// directory is a repository root, then .gitignore, then .ignore. A missing file
// contributes no rules. An unreadable file also contributes no rules and the
// returned error wraps types.ErrTraversal so the caller can surface it as a
// warning.
func (index *Index) Enter(directory string) error {
	if index.disabled {
		return nil
	}
	cleanedDirectory := filepath.Clean(directory)

	index.mutex.RLock()
	_, loaded := index.directories[cleanedDirectory]
	index.mutex.RUnlock()
	if loaded {
		return nil
	}

	ownRules, loadError := loadDirectoryRules(cleanedDirectory)

	index.mutex.Lock()
	defer index.mutex.Unlock()
	if _, loaded = index.directories[cleanedDirectory]; loaded {
		return nil
	}

	var cumulative []gitignorefmt.Pattern
	if ancestor := index.nearestLoadedLocked(filepath.Dir(cleanedDirectory)); ancestor != nil {
		cumulative = append(cumulative, ancestor.cumulative...)
	}
	domain := splitPath(cleanedDirectory)
	for _, rule := range ownRules {
		cumulative = append(cumulative, gitignorefmt.ParsePattern(rule.text(), domain))
	}
	index.directories[cleanedDirectory] = &directoryRules{
		own:        ownRules,
		cumulative: cumulative,
		matcher:    gitignorefmt.NewMatcher(cumulative),
	}
	return loadError
}

// EnterAncestors enters every directory from the repository root enclosing
// directory down to directory itself, outermost first, so a walk that starts
// below the repository root still sees the rules of its parents. Outside a
// repository nothing above directory is read.
func (index *Index) EnterAncestors(directory string) error {
	if index.disabled {
		return nil
	}
	cleanedDirectory := filepath.Clean(directory)
	repositoryRoot, found := FindRepositoryRoot(cleanedDirectory)
	if !found {
		return index.Enter(cleanedDirectory)
	}

	chain := []string{cleanedDirectory}
	for current := cleanedDirectory; current != repositoryRoot; {
		current = filepath.Dir(current)
		chain = append(chain, current)
	}
	var enterErrors []error
	for position := len(chain) - 1; position >= 0; position-- {
		enterErrors = append(enterErrors, index.Enter(chain[position]))
	}
	return errors.Join(enterErrors...)
}

// FindRepositoryRoot returns the nearest directory at or above directory that
// contains a .git entry.
func FindRepositoryRoot(directory string) (string, bool) {
	current := filepath.Clean(directory)
	for {
		if _, statError := os.Lstat(filepath.Join(current, RepositoryMarker)); statError == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// IsIgnored reports whether path is excluded by the rules of its loaded ancestors.
func (index *Index) IsIgnored(path string, isDirectory bool) bool {
	if index.disabled {
		return false
	}
	cleanedPath := filepath.Clean(path)

	index.mutex.RLock()
	rules := index.nearestLoadedLocked(filepath.Dir(cleanedPath))
	index.mutex.RUnlock()
	if rules == nil || len(rules.cumulative) == 0 {
		return false
	}
	return rules.matcher.Match(splitPath(cleanedPath), isDirectory)
}

// Rules returns the rules parsed from the .gitignore of directory, if loaded.
func (index *Index) Rules(directory string) []Rule {
	index.mutex.RLock()
	defer index.mutex.RUnlock()
	rules, loaded := index.directories[filepath.Clean(directory)]
	if !loaded {
		return nil
	}
	return append([]Rule(nil), rules.own...)
}

func (index *Index) nearestLoadedLocked(directory string) *directoryRules {
	current := directory
	for {
		if rules, loaded := index.directories[current]; loaded {
			return rules
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil
		}
		current = parent
	}
}

func (rule Rule) text() string {
	if rule.Negated {
		return negationPrefix + rule.Pattern
	}
	return rule.Pattern
}

func loadDirectoryRules(directory string) ([]Rule, error) {
	sources := []string{filepath.Join(directory, FileName), filepath.Join(directory, LocalFileName)}
	if info, statError := os.Stat(filepath.Join(directory, RepositoryMarker)); statError == nil && info.IsDir() {
		sources = append([]string{filepath.Join(directory, RepositoryMarker, excludeFilePath)}, sources...)
	}
	var rules []Rule
	var loadErrors []error
	for _, source := range sources {
		sourceRules, loadError := loadRules(source)
		rules = append(rules, sourceRules...)
		loadErrors = append(loadErrors, loadError)
	}
	return rules, errors.Join(loadErrors...)
}

// loadRules reads and parses one ignore file.
//
// #nosec G304
func loadRules(ignoreFilePath string) ([]Rule, error) {
	content, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: "+readFailureFormat, types.ErrTraversal, ignoreFilePath, readError)
	}
	return ParseRules(content), nil
}

// ParseRules parses .gitignore content, skipping blank lines and comments.
func ParseRules(content []byte) []Rule {
	var rules []Rule
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), trailingSpaceSet)
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if strings.HasPrefix(line, negationPrefix) {
			rules = append(rules, Rule{Pattern: strings.TrimPrefix(line, negationPrefix), Negated: true})
			continue
		}
		rules = append(rules, Rule{Pattern: line})
	}
	return rules
}

func splitPath(path string) []string {
	return strings.Split(filepath.ToSlash(path), pathSeparator)
}
