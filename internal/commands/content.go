package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/temirov/summarize/internal/accountant"
	"github.com/temirov/summarize/internal/types"
	"github.com/temirov/summarize/internal/utils"
	"github.com/temirov/summarize/internal/walker"
)

const (
	WarningFileReadFormat   = "failed to read file %s: %v"
	WarningBinaryFileText   = "skipping non-text file"
	errorFatalReadFormat    = "%w: reading %s: %w"
	errorNilDocumentVisitor = "document visitor is nil"
)

// DocumentVisitor receives each Document discovered during traversal.
type DocumentVisitor func(types.Document) error

// StreamContent walks roots and invokes visitor for every readable text file
// in walk order. Unreadable and binary files are reported to warnings and skipped.
func StreamContent(ctx context.Context, fileWalker *walker.Walker, roots []types.ValidatedPath, warnings types.WarningSink, visitor DocumentVisitor) error {
	if visitor == nil {
		return errors.New(errorNilDocumentVisitor)
	}
	if warnings == nil {
		warnings = types.DiscardWarnings
	}
	return fileWalker.Walk(ctx, roots, func(entry types.FileEntry) error {
		fileBytes, fileReadError := os.ReadFile(entry.Path)
		if fileReadError != nil {
			if accountant.IsFatalIOError(fileReadError) {
				return fmt.Errorf(errorFatalReadFormat, types.ErrFatalIO, entry.DisplayPath, fileReadError)
			}
			warnings.Warn(types.Warning{
				Path:    entry.DisplayPath,
				Kind:    types.WarningFileRead,
				Message: fmt.Sprintf(WarningFileReadFormat, entry.DisplayPath, fileReadError),
			})
			return nil
		}
		if utils.IsBinary(fileBytes) {
			warnings.Warn(types.Warning{Path: entry.DisplayPath, Kind: types.WarningDecode, Message: WarningBinaryFileText})
			return nil
		}
		fileContent := string(fileBytes)
		return visitor(types.Document{
			DisplayPath: entry.DisplayPath,
			Content:     fileContent,
			LineCount:   utils.CountLines(fileContent),
		})
	})
}

// GetContentData returns every Document StreamContent would visit.
func GetContentData(ctx context.Context, fileWalker *walker.Walker, roots []types.ValidatedPath, warnings types.WarningSink) ([]types.Document, error) {
	var documents []types.Document
	streamError := StreamContent(ctx, fileWalker, roots, warnings, func(document types.Document) error {
		documents = append(documents, document)
		return nil
	})
	if streamError != nil {
		return nil, streamError
	}
	return documents, nil
}
