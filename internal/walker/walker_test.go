package walker_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/summarize/internal/filter"
	"github.com/temirov/summarize/internal/gitignore"
	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/walker"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collectDisplayPaths(t *testing.T, options filter.Options, recorder *types.WarningRecorder, arguments ...string) []string {
	t.Helper()
	config, configError := filter.NewConfig(options)
	require.NoError(t, configError)
	roots, resolveError := walker.ResolveRoots(arguments)
	require.NoError(t, resolveError)

	var sink types.WarningSink = types.DiscardWarnings
	if recorder != nil {
		sink = recorder
	}
	entries, walkError := walker.New(config, nil, sink).Collect(context.Background(), roots)
	require.NoError(t, walkError)

	displayPaths := make([]string, 0, len(entries))
	for _, entry := range entries {
		displayPaths = append(displayPaths, entry.DisplayPath)
	}
	return displayPaths
}

func TestWalkFiltersHiddenAndExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "print(1)\n")
	writeFile(t, filepath.Join(root, "b.txt"), "text\n")
	writeFile(t, filepath.Join(root, ".hidden.py"), "secret\n")
	writeFile(t, filepath.Join(root, "vendor", "lib.py"), "lib\n")

	displayPaths := collectDisplayPaths(t, filter.Options{Extensions: []string{"py"}}, nil, root)
	require.Equal(t, []string{
		filepath.ToSlash(filepath.Join(root, "a.py")),
		filepath.ToSlash(filepath.Join(root, "vendor", "lib.py")),
	}, displayPaths)
}

func TestWalkHonorsGitignoreDirectoryPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, gitignore.FileName), "build/\n")
	writeFile(t, filepath.Join(root, "build", "gen.py"), "generated\n")
	writeFile(t, filepath.Join(root, "src", "main.py"), "main\n")

	displayPaths := collectDisplayPaths(t, filter.Options{Extensions: []string{"py"}}, nil, root)
	require.Equal(t, []string{filepath.ToSlash(filepath.Join(root, "src", "main.py"))}, displayPaths)

	withoutGitignore := collectDisplayPaths(t, filter.Options{Extensions: []string{"py"}, IgnoreGitignore: true}, nil, root)
	require.Len(t, withoutGitignore, 2)
}

func TestWalkChildNegationReincludesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, gitignore.FileName), "*.log\n")
	writeFile(t, filepath.Join(root, "logs", gitignore.FileName), "!keep.log\n")
	writeFile(t, filepath.Join(root, "logs", "keep.log"), "keep\n")
	writeFile(t, filepath.Join(root, "logs", "drop.log"), "drop\n")
	writeFile(t, filepath.Join(root, "top.log"), "top\n")

	displayPaths := collectDisplayPaths(t, filter.Options{Extensions: []string{"log"}}, nil, root)
	require.Equal(t, []string{filepath.ToSlash(filepath.Join(root, "logs", "keep.log"))}, displayPaths)
}

func TestWalkOrderIsLexicalAndIdempotent(t *testing.T) {
	root := t.TempDir()
	for _, relativePath := range []string{"z.go", "a/b.go", "a/a.go", "m.go", "a/c/d.go"} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(relativePath)), "package x\n")
	}

	first := collectDisplayPaths(t, filter.Options{}, nil, root)
	second := collectDisplayPaths(t, filter.Options{}, nil, root)
	require.Equal(t, first, second)

	expected := []string{"a/a.go", "a/b.go", "a/c/d.go", "m.go", "z.go"}
	require.Len(t, first, len(expected))
	for index, relativePath := range expected {
		require.Equal(t, filepath.ToSlash(filepath.Join(root, filepath.FromSlash(relativePath))), first[index])
	}
}

func TestWalkDisplayPathUsesRootArgument(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "main.go"), "package main\n")
	t.Chdir(root)

	require.Equal(t, []string{"pkg/main.go"}, collectDisplayPaths(t, filter.Options{}, nil, "."))
	require.Equal(t, []string{"pkg/main.go"}, collectDisplayPaths(t, filter.Options{}, nil, "pkg"))
}

func TestWalkDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "main.go"), "package main\n")
	t.Chdir(root)

	require.Equal(t, []string{"pkg/main.go"}, collectDisplayPaths(t, filter.Options{}, nil, ".", "pkg", "./pkg/main.go"))
}

func TestWalkRootFileBypassesDirectoryRules(t *testing.T) {
	root := t.TempDir()
	hiddenFile := filepath.Join(root, ".hidden.py")
	writeFile(t, hiddenFile, "x = 1\n")
	textFile := filepath.Join(root, "notes.txt")
	writeFile(t, textFile, "notes\n")

	displayPaths := collectDisplayPaths(t, filter.Options{Extensions: []string{"py"}}, nil, hiddenFile, textFile)
	require.Equal(t, []string{filepath.ToSlash(hiddenFile)}, displayPaths)
}

func TestWalkExcludesVCSDirectoryUnlessRequested(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "[core]\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")

	require.Len(t, collectDisplayPaths(t, filter.Options{}, nil, root), 1)
	require.Len(t, collectDisplayPaths(t, filter.Options{IncludeHidden: true}, nil, root), 1)
	require.Len(t, collectDisplayPaths(t, filter.Options{IncludeHidden: true, IncludeVCS: true}, nil, root), 2)
}

func TestWalkReportsSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dir", "file.go"), "package dir\n")
	if err := os.Symlink(root, filepath.Join(root, "dir", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	recorder := &types.WarningRecorder{}
	displayPaths := collectDisplayPaths(t, filter.Options{}, recorder, root)
	require.Equal(t, []string{filepath.ToSlash(filepath.Join(root, "dir", "file.go"))}, displayPaths)
	require.Contains(t, recorder.Kinds(), types.WarningSymlinkCycle)
}

func TestWalkReportsBrokenSymlink(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	if err := os.Symlink(filepath.Join(root, "missing.go"), filepath.Join(root, "dangling.go")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	recorder := &types.WarningRecorder{}
	displayPaths := collectDisplayPaths(t, filter.Options{}, recorder, root)
	require.Len(t, displayPaths, 1)
	require.Equal(t, []types.WarningKind{types.WarningBrokenSymlink}, recorder.Kinds())
}

func TestWalkSkipsUnreadableGitignoreWithWarning(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, gitignore.FileName), 0o755))
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")

	recorder := &types.WarningRecorder{}
	displayPaths := collectDisplayPaths(t, filter.Options{}, recorder, root)
	require.Len(t, displayPaths, 1)
	require.Equal(t, []types.WarningKind{types.WarningUnreadableGitignore}, recorder.Kinds())
}

func TestWalkStopsOnVisitorError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "package a\n")
	writeFile(t, filepath.Join(root, "b.go"), "package b\n")
	roots, err := walker.ResolveRoots([]string{root})
	require.NoError(t, err)

	config, err := filter.NewConfig(filter.Options{})
	require.NoError(t, err)
	stopError := errors.New("stop")
	visited := 0
	walkError := walker.New(config, nil, nil).Walk(context.Background(), roots, func(types.FileEntry) error {
		visited++
		return stopError
	})
	require.ErrorIs(t, walkError, stopError)
	require.Equal(t, 1, visited)
}

func TestWalkHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "package a\n")
	roots, err := walker.ResolveRoots([]string{root})
	require.NoError(t, err)
	config, err := filter.NewConfig(filter.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, walkError := walker.New(config, nil, nil).Collect(ctx, roots)
	require.ErrorIs(t, walkError, context.Canceled)
}

func TestResolveRootsRejectsMissingPath(t *testing.T) {
	_, err := walker.ResolveRoots([]string{filepath.Join(t.TempDir(), "absent")})
	require.ErrorIs(t, err, types.ErrConfig)

	_, err = walker.ResolveRoots(nil)
	require.ErrorIs(t, err, types.ErrConfig)
}

func TestWalkBelowRepositoryRootAppliesAncestorGitignore(t *testing.T) {
	repository := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repository, gitignore.RepositoryMarker), 0o755))
	writeFile(t, filepath.Join(repository, gitignore.FileName), "*.log\n")
	writeFile(t, filepath.Join(repository, "src", "a.go"), "package a\n")
	writeFile(t, filepath.Join(repository, "src", "debug.log"), "trace\n")

	t.Chdir(repository)
	require.Equal(t, []string{"src/a.go"}, collectDisplayPaths(t, filter.Options{}, nil, "."))
	require.Equal(t, []string{"src/a.go"}, collectDisplayPaths(t, filter.Options{}, nil, "src"))
	require.Equal(t, []string{"src/a.go", "src/debug.log"}, collectDisplayPaths(t, filter.Options{IgnoreGitignore: true}, nil, "src"))
}

func TestWalkOutsideRepositoryIgnoresParentGitignore(t *testing.T) {
	parent := t.TempDir()
	writeFile(t, filepath.Join(parent, gitignore.FileName), "*.log\n")
	writeFile(t, filepath.Join(parent, "src", "debug.log"), "trace\n")

	t.Chdir(parent)
	require.Equal(t, []string{"src/debug.log"}, collectDisplayPaths(t, filter.Options{}, nil, "src"))
}

func TestWalkHonorsIgnoreFileAndRepositoryExclude(t *testing.T) {
	repository := t.TempDir()
	writeFile(t, filepath.Join(repository, gitignore.RepositoryMarker, "info", "exclude"), "*.tmp\n")
	writeFile(t, filepath.Join(repository, gitignore.FileName), "*.txt\n")
	writeFile(t, filepath.Join(repository, gitignore.LocalFileName), "!keep.txt\nscratch/\n")
	writeFile(t, filepath.Join(repository, "main.go"), "package main\n")
	writeFile(t, filepath.Join(repository, "notes.txt"), "notes\n")
	writeFile(t, filepath.Join(repository, "keep.txt"), "keep\n")
	writeFile(t, filepath.Join(repository, "cache.tmp"), "cache\n")
	writeFile(t, filepath.Join(repository, "scratch", "draft.go"), "package draft\n")

	t.Chdir(repository)
	require.Equal(t, []string{"keep.txt", "main.go"}, collectDisplayPaths(t, filter.Options{}, nil, "."))
}

func TestWalkSkipsUnreadableDirectoryAndContinues(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "package a\n")
	writeFile(t, filepath.Join(root, "locked", "secret.go"), "package secret\n")
	writeFile(t, filepath.Join(root, "z.go"), "package z\n")
	lockedDirectory := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(lockedDirectory, 0))
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	recorder := &types.WarningRecorder{}
	t.Chdir(root)
	require.Equal(t, []string{"a.go", "z.go"}, collectDisplayPaths(t, filter.Options{}, recorder, "."))
	require.Equal(t, []types.WarningKind{types.WarningPermissionDenied}, recorder.Kinds())
}
