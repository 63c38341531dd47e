// Package accountant counts tokens for a set of files on a fixed worker pool
// and folds the results into a summary that does not depend on scheduling.
package accountant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
)

const (
	errorNegativeWorkersFormat = "worker count must not be negative, got %d"
	errorNilTokenizer          = "accountant requires a tokenizer"
	errorFatalReadFormat       = "%w: reading %s: %w"
	errorFileReadFormat        = "%w: %w"
)

// FileReader loads the full content of one file.
type FileReader func(path string) ([]byte, error)

// Options configures an Accountant. Workers of zero selects runtime.NumCPU();
// a nil Pricing disables the cost estimate and a nil Reader reads from disk.
type Options struct {
	Workers   int
	Tokenizer tokenizer.Tokenizer
	Pricing   *tokenizer.Pricing
	Reader    FileReader
	Warnings  types.WarningSink
}

// Accountant runs the counting phase of a token report.
type Accountant struct {
	workers   int
	tokenizer tokenizer.Tokenizer
	pricing   *tokenizer.Pricing
	reader    FileReader
	warnings  types.WarningSink
	now       func() time.Time
}

// New validates options and returns an Accountant.
func New(options Options) (*Accountant, error) {
	if options.Workers < 0 {
		return nil, types.ConfigErrorf(errorNegativeWorkersFormat, options.Workers)
	}
	if options.Tokenizer == nil {
		return nil, types.ConfigErrorf(errorNilTokenizer)
	}
	workers := options.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	reader := options.Reader
	if reader == nil {
		reader = os.ReadFile
	}
	warnings := options.Warnings
	if warnings == nil {
		warnings = types.DiscardWarnings
	}
	return &Accountant{
		workers:   workers,
		tokenizer: options.Tokenizer,
		pricing:   options.Pricing,
		reader:    reader,
		warnings:  warnings,
		now:       time.Now,
	}, nil
}

// Workers reports the resolved pool size.
func (accountant *Accountant) Workers() int {
	return accountant.workers
}

// Account counts every entry and returns the folded summary. All workers are
// joined before any aggregate is computed. Per-file failures become error
// results; a fatal I/O error cancels the remaining work and is returned
// wrapped in types.ErrFatalIO.
func (accountant *Accountant) Account(ctx context.Context, entries []types.FileEntry) (Summary, error) {
	startTime := accountant.now()
	results := make([]FileResult, len(entries))

	group, groupContext := errgroup.WithContext(ctx)
	indices := make(chan int)

	group.Go(func() error {
		defer close(indices)
		for index := range entries {
			select {
			case <-groupContext.Done():
				return groupContext.Err()
			case indices <- index:
			}
		}
		return nil
	})

	for workerIndex := 0; workerIndex < accountant.workers; workerIndex++ {
		group.Go(func() error {
			for index := range indices {
				if contextError := groupContext.Err(); contextError != nil {
					return contextError
				}
				result, fatalError := accountant.countEntry(entries[index])
				if fatalError != nil {
					return fatalError
				}
				results[index] = result
			}
			return nil
		})
	}

	if waitError := group.Wait(); waitError != nil {
		return Summary{}, waitError
	}

	sort.Slice(results, func(left, right int) bool {
		if results[left].DisplayPath != results[right].DisplayPath {
			return results[left].DisplayPath < results[right].DisplayPath
		}
		return results[left].Path < results[right].Path
	})

	summary := fold(results)
	summary.TokenizerName = accountant.tokenizer.Name()
	summary.Workers = accountant.workers
	summary.Elapsed = accountant.now().Sub(startTime)
	if accountant.pricing != nil {
		estimate := EstimateCost(summary.TotalTokens, *accountant.pricing)
		summary.Cost = &estimate
	}

	for _, result := range summary.Files {
		if result.Failed() {
			accountant.warnings.Warn(types.Warning{
				Path:    result.DisplayPath,
				Kind:    types.WarningKindFor(result.ErrorKind),
				Message: result.Message,
			})
		}
	}
	return summary, nil
}

// countEntry produces the result for one entry. The second return value is
// non-nil only for fatal I/O conditions.
func (accountant *Accountant) countEntry(entry types.FileEntry) (FileResult, error) {
	result := FileResult{Path: entry.Path, DisplayPath: entry.DisplayPath, SizeBytes: entry.SizeBytes}

	content, readError := accountant.reader(entry.Path)
	if readError != nil {
		if IsFatalIOError(readError) {
			return FileResult{}, fmt.Errorf(errorFatalReadFormat, types.ErrFatalIO, entry.DisplayPath, readError)
		}
		return result.withError(fmt.Errorf(errorFileReadFormat, types.ErrFileRead, readError)), nil
	}

	tokens, countError := accountant.tokenizer.Count(content)
	if countError != nil {
		return result.withError(countError), nil
	}
	result.Tokens = tokens
	return result, nil
}

// IsFatalIOError reports whether err signals a failing device rather than a
// problem with one file.
func IsFatalIOError(err error) bool {
	for _, fatalErrno := range []syscall.Errno{syscall.EIO, syscall.ENXIO, syscall.ENODEV, syscall.ENOSPC} {
		if errors.Is(err, fatalErrno) {
			return true
		}
	}
	return errors.Is(err, types.ErrFatalIO)
}
