package commands

import (
	"context"
	"time"

	"github.com/temirov/summarize/internal/accountant"
	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/walker"
)

// DiscoveryObserver is told how many files were found before counting starts.
type DiscoveryObserver func(fileCount int)

// CountTokens discovers files under roots and counts them with tokenAccountant.
// The reported elapsed time covers discovery and counting. A nil observer is
// allowed.
func CountTokens(ctx context.Context, fileWalker *walker.Walker, roots []types.ValidatedPath, tokenAccountant *accountant.Accountant, observer DiscoveryObserver) (accountant.Summary, error) {
	startTime := time.Now()
	entries, collectError := fileWalker.Collect(ctx, roots)
	if collectError != nil {
		return accountant.Summary{}, collectError
	}
	if observer != nil {
		observer(len(entries))
	}
	summary, accountError := tokenAccountant.Account(ctx, entries)
	if accountError != nil {
		return accountant.Summary{}, accountError
	}
	summary.Elapsed = time.Since(startTime)
	return summary, nil
}
