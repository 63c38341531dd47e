package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/temirov/summarize/internal/summary"
	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/utils"
)

const (
	catalogueHeader       = "Model\tName\tTokenizer\tInput $/1K\tOutput $/1K"
	catalogueRowFormat    = "%s\t%s\t%s\t%.4f\t%.4f\n"
	catalogueDefaultMark  = " (default)"
	geminiModelsTitle     = "\nAvailable Gemini models:"
	geminiModelsHeader    = "Model\tName\tInput tokens\tOutput tokens\tActions"
	geminiModelsRowFormat = "%s\t%s\t%s\t%s\t%s\n"
	actionsSeparator      = ", "
)

// WriteModelCatalogue lists the built-in models and their prices.
func WriteModelCatalogue(writer io.Writer, models []tokenizer.Model) error {
	table := tabwriter.NewWriter(writer, tabwriterMinimumWidth, tabwriterTabWidth, tabwriterPadding, tabwriterPaddingSymbol, 0)
	fmt.Fprintln(table, catalogueHeader)
	for _, model := range models {
		identifier := model.Identifier
		if identifier == tokenizer.DefaultModel {
			identifier += catalogueDefaultMark
		}
		fmt.Fprintf(table, catalogueRowFormat, identifier, model.DisplayName, model.Family, model.Pricing.InputPerThousand, model.Pricing.OutputPerThousand)
	}
	return table.Flush()
}

// WriteGeminiModels lists models reported by the Gemini API.
func WriteGeminiModels(writer io.Writer, models []summary.GeminiModel) error {
	if _, err := fmt.Fprintln(writer, geminiModelsTitle); err != nil {
		return err
	}
	table := tabwriter.NewWriter(writer, tabwriterMinimumWidth, tabwriterTabWidth, tabwriterPadding, tabwriterPaddingSymbol, 0)
	fmt.Fprintln(table, geminiModelsHeader)
	for _, model := range models {
		fmt.Fprintf(table, geminiModelsRowFormat,
			model.Name,
			model.DisplayName,
			utils.FormatCount(uint64(max(model.InputTokenLimit, 0))),
			utils.FormatCount(uint64(max(model.OutputTokenLimit, 0))),
			strings.Join(model.SupportedActions, actionsSeparator),
		)
	}
	return table.Flush()
}
