// Package walker traverses root paths depth-first and yields the files that
// survive the filter rules and the gitignore index.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/summarize/internal/filter"
	"github.com/temirov/summarize/internal/gitignore"
	"github.com/temirov/summarize/internal/types"
)

const (
	relativeSeparator          = "/"
	readDirectoryFormat        = "reading directory %s: %v"
	symlinkCycleFormat         = "skipping %s: symbolic link resolves to ancestor %s"
	brokenSymlinkFormat        = "skipping %s: %v"
	statFileFormat             = "unable to stat %s: %v"
	resolveDirectoryFormat     = "unable to resolve %s: %v"
	errorAbsolutePathFormat    = "abs failed for '%s': %v"
	errorPathMissingFormat     = "path '%s' does not exist"
	errorStatFormat            = "stat failed for '%s': %v"
	errorNoValidPaths          = "no valid paths"
	errorNilVisitor            = "walker visitor is nil"
	errorUnsupportedRootFormat = "path '%s' is neither a regular file nor a directory"
)

// Visitor receives each accepted file in discovery order.
type Visitor func(entry types.FileEntry) error

// Walker combines the filter rules and a gitignore index into one decision per
// entry. It is single threaded; the order of yielded entries is deterministic.
type Walker struct {
	filterConfig  filter.Config
	index         *gitignore.Index
	warnings      types.WarningSink
	readDirectory func(path string) ([]fs.DirEntry, error)
}

// New returns a Walker. A nil index is replaced by one honoring the
// configuration's IgnoreGitignore flag and a nil sink discards warnings.
func New(filterConfig filter.Config, index *gitignore.Index, warnings types.WarningSink) *Walker {
	if index == nil {
		index = gitignore.NewIndex(filterConfig.IgnoreGitignore())
	}
	if warnings == nil {
		warnings = types.DiscardWarnings
	}
	return &Walker{filterConfig: filterConfig, index: index, warnings: warnings, readDirectory: os.ReadDir}
}

type rootTraversal struct {
	root         types.ValidatedPath
	activeSet    map[string]string
	visitedFiles map[string]struct{}
	visitor      Visitor
}

// Walk visits every root in order. Directories are traversed depth-first with
// children in lexical order; excluded directories are never listed.
func (walker *Walker) Walk(ctx context.Context, roots []types.ValidatedPath, visitor Visitor) error {
	if visitor == nil {
		return errors.New(errorNilVisitor)
	}
	visitedFiles := map[string]struct{}{}
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		traversal := &rootTraversal{
			root:         root,
			activeSet:    map[string]string{},
			visitedFiles: visitedFiles,
			visitor:      visitor,
		}
		if !root.IsDir {
			if err := walker.visitRootFile(traversal); err != nil {
				return err
			}
			continue
		}
		if err := walker.walkRootDirectory(ctx, traversal); err != nil {
			return err
		}
	}
	return nil
}

// Collect walks roots and returns the accepted entries in discovery order.
func (walker *Walker) Collect(ctx context.Context, roots []types.ValidatedPath) ([]types.FileEntry, error) {
	var entries []types.FileEntry
	walkError := walker.Walk(ctx, roots, func(entry types.FileEntry) error {
		entries = append(entries, entry)
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}
	return entries, nil
}

func (walker *Walker) visitRootFile(traversal *rootTraversal) error {
	root := traversal.root
	entry := filter.NewEntry(filepath.Base(root.AbsolutePath), false)
	if filter.EvaluateRootFile(entry, walker.filterConfig) == filter.Exclude {
		return nil
	}
	info, statError := os.Stat(root.AbsolutePath)
	if statError != nil {
		walker.warn(root.AbsolutePath, types.WarningFileRead, fmt.Sprintf(statFileFormat, root.AbsolutePath, statError))
		return nil
	}
	return traversal.emit(root.AbsolutePath, displayPath(root.Argument, ""), info.Size())
}

func (walker *Walker) walkRootDirectory(ctx context.Context, traversal *rootTraversal) error {
	rootPath := traversal.root.AbsolutePath
	realRoot, resolveError := filepath.EvalSymlinks(rootPath)
	if resolveError != nil {
		walker.warn(rootPath, types.WarningUnreadableDirectory, fmt.Sprintf(resolveDirectoryFormat, rootPath, resolveError))
		return nil
	}
	if enterError := walker.index.EnterAncestors(rootPath); enterError != nil {
		walker.warn(rootPath, types.WarningUnreadableGitignore, enterError.Error())
	}
	traversal.activeSet[realRoot] = rootPath
	defer delete(traversal.activeSet, realRoot)
	return walker.walkDirectory(ctx, traversal, rootPath, "")
}

func (walker *Walker) walkDirectory(ctx context.Context, traversal *rootTraversal, directoryPath string, relativeDirectory string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	directoryEntries, readError := walker.readDirectory(directoryPath)
	if readError != nil {
		kind := types.WarningUnreadableDirectory
		if errors.Is(readError, fs.ErrPermission) {
			kind = types.WarningPermissionDenied
		}
		walker.warn(directoryPath, kind, fmt.Sprintf(readDirectoryFormat, directoryPath, readError))
		return nil
	}

	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		childRelative := joinRelative(relativeDirectory, directoryEntry.Name())

		isDirectory := directoryEntry.IsDir()
		var targetInfo fs.FileInfo
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			info, statError := os.Stat(childPath)
			if statError != nil {
				walker.warn(childPath, types.WarningBrokenSymlink, fmt.Sprintf(brokenSymlinkFormat, childPath, statError))
				continue
			}
			targetInfo = info
			isDirectory = info.IsDir()
		}

		entry := filter.NewEntry(childRelative, isDirectory)
		if filter.Evaluate(entry, walker.filterConfig) == filter.Exclude {
			continue
		}
		if walker.index.IsIgnored(childPath, isDirectory) {
			continue
		}

		if isDirectory {
			if err := walker.descend(ctx, traversal, childPath, childRelative); err != nil {
				return err
			}
			continue
		}

		if targetInfo == nil {
			info, infoError := directoryEntry.Info()
			if infoError != nil {
				walker.warn(childPath, types.WarningFileRead, fmt.Sprintf(statFileFormat, childPath, infoError))
				continue
			}
			targetInfo = info
		}
		if !targetInfo.Mode().IsRegular() {
			continue
		}
		if err := traversal.emit(childPath, displayPath(traversal.root.Argument, childRelative), targetInfo.Size()); err != nil {
			return err
		}
	}
	return nil
}

func (walker *Walker) descend(ctx context.Context, traversal *rootTraversal, directoryPath string, relativeDirectory string) error {
	realPath, resolveError := filepath.EvalSymlinks(directoryPath)
	if resolveError != nil {
		walker.warn(directoryPath, types.WarningUnreadableDirectory, fmt.Sprintf(resolveDirectoryFormat, directoryPath, resolveError))
		return nil
	}
	if ancestor, active := traversal.activeSet[realPath]; active {
		walker.warn(directoryPath, types.WarningSymlinkCycle, fmt.Sprintf(symlinkCycleFormat, directoryPath, ancestor))
		return nil
	}
	walker.enterDirectory(directoryPath)
	traversal.activeSet[realPath] = directoryPath
	defer delete(traversal.activeSet, realPath)
	return walker.walkDirectory(ctx, traversal, directoryPath, relativeDirectory)
}

func (walker *Walker) enterDirectory(directoryPath string) {
	if enterError := walker.index.Enter(directoryPath); enterError != nil {
		walker.warn(filepath.Join(directoryPath, gitignore.FileName), types.WarningUnreadableGitignore, enterError.Error())
	}
}

func (walker *Walker) warn(path string, kind types.WarningKind, message string) {
	walker.warnings.Warn(types.Warning{Path: path, Kind: kind, Message: message})
}

func (traversal *rootTraversal) emit(path string, display string, size int64) error {
	if _, seen := traversal.visitedFiles[path]; seen {
		return nil
	}
	traversal.visitedFiles[path] = struct{}{}
	return traversal.visitor(types.FileEntry{Path: path, DisplayPath: display, SizeBytes: size})
}

func joinRelative(relativeDirectory string, name string) string {
	if relativeDirectory == "" {
		return name
	}
	return relativeDirectory + relativeSeparator + name
}

// displayPath joins the root argument as the user typed it with the relative path.
func displayPath(rootArgument string, relativePath string) string {
	return filepath.ToSlash(filepath.Join(rootArgument, filepath.FromSlash(relativePath)))
}

// ResolveRoots converts arguments to absolute paths, verifies they exist and
// drops duplicates while keeping the first occurrence. Failures wrap types.ErrConfig.
func ResolveRoots(arguments []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, argument := range arguments {
		absolutePath, absolutePathError := filepath.Abs(argument)
		if absolutePathError != nil {
			return nil, types.ConfigErrorf(errorAbsolutePathFormat, argument, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if errors.Is(fileStatusError, fs.ErrNotExist) {
				return nil, types.ConfigErrorf(errorPathMissingFormat, argument)
			}
			return nil, types.ConfigErrorf(errorStatFormat, argument, fileStatusError)
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil, types.ConfigErrorf(errorUnsupportedRootFormat, argument)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{Argument: argument, AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, types.ConfigErrorf(errorNoValidPaths)
	}
	return result, nil
}
