package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/temirov/summarize/internal/accountant"
	"github.com/temirov/summarize/internal/utils"
)

const (
	tableHeader            = "File\tSize\tTokens"
	tableRowFormat         = "%s\t%s\t%s\n"
	tableErrorCell         = "error: %s"
	tableTotalLabel        = "TOTAL"
	totalTokensFormat      = "Total tokens: %s\n"
	filesProcessedFormat   = "Files processed: %d\n"
	filesWithErrorsFormat  = "Files with errors: %d\n"
	timeTakenFormat        = "Time taken: %s (%s tokens/sec)\n"
	costHeaderFormat       = "\nEstimated cost (%s):\n"
	costInputFormat        = "  Input: $%.4f (%s tokens @ $%.4f/1K tokens)\n"
	costOutputFormat       = "  Output: $%.4f (est. %s tokens @ $%.4f/1K tokens)*\n"
	costTotalFormat        = "  Total: $%.4f\n"
	costFootnote           = "\n* Output tokens are estimated at 20% of input tokens\n"
	tabwriterMinimumWidth  = 0
	tabwriterTabWidth      = 8
	tabwriterPadding       = 2
	tabwriterPaddingSymbol = ' '
	jsonIndentation        = "  "
)

// ReportOptions controls the human-readable token report.
type ReportOptions struct {
	// Verbose adds a per-file table.
	Verbose   bool
	ModelName string
}

// WriteTokenReport writes the summary as a human-readable report.
func WriteTokenReport(writer io.Writer, summary accountant.Summary, options ReportOptions) error {
	report := &reportWriter{writer: writer}

	if options.Verbose {
		table := tabwriter.NewWriter(writer, tabwriterMinimumWidth, tabwriterTabWidth, tabwriterPadding, tabwriterPaddingSymbol, 0)
		fmt.Fprintln(table, tableHeader)
		var totalBytes int64
		for _, result := range summary.Files {
			tokensCell := utils.FormatCount(result.Tokens)
			if result.Failed() {
				tokensCell = fmt.Sprintf(tableErrorCell, result.ErrorKind)
			} else {
				totalBytes += result.SizeBytes
			}
			fmt.Fprintf(table, tableRowFormat, result.DisplayPath, utils.FormatFileSize(result.SizeBytes), tokensCell)
		}
		fmt.Fprintf(table, tableRowFormat, tableTotalLabel, utils.FormatFileSize(totalBytes), utils.FormatCount(summary.TotalTokens))
		if flushError := table.Flush(); flushError != nil {
			return flushError
		}
	} else {
		report.printf(totalTokensFormat, utils.FormatCount(summary.TotalTokens))
	}

	report.printf(filesProcessedFormat, summary.FilesCounted)
	if summary.FilesErrored > 0 {
		report.printf(filesWithErrorsFormat, summary.FilesErrored)
	}
	report.printf(timeTakenFormat, utils.FormatDuration(summary.Elapsed), utils.FormatCount(summary.TokensPerSecond()))

	if summary.Cost != nil {
		cost := summary.Cost
		report.printf(costHeaderFormat, options.ModelName)
		report.printf(costInputFormat, cost.InputCost, utils.FormatCount(cost.InputTokens), cost.Pricing.InputPerThousand)
		report.printf(costOutputFormat, cost.OutputCost, utils.FormatCount(cost.EstimatedOutputTokens), cost.Pricing.OutputPerThousand)
		report.printf(costTotalFormat, cost.TotalCost)
		report.printf("%s", costFootnote)
	}
	return report.err
}

// WriteTokenReportJSON writes the summary as an indented JSON object.
func WriteTokenReportJSON(writer io.Writer, summary accountant.Summary) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndentation)
	return encoder.Encode(summary)
}

// reportWriter keeps the first write error so callers check once.
type reportWriter struct {
	writer io.Writer
	err    error
}

func (report *reportWriter) printf(format string, arguments ...any) {
	if report.err != nil {
		return
	}
	_, report.err = fmt.Fprintf(report.writer, format, arguments...)
}
