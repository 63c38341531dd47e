package accountant

import (
	"math"
	"time"

	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
)

const (
	tokensPerPricingUnit = 1000.0
	// EstimatedOutputRatio is the share of input tokens assumed for a response.
	EstimatedOutputRatio = 0.2
)

// FileResult is the outcome for one file: either Tokens or an ErrorKind with Message.
type FileResult struct {
	Path        string          `json:"-"`
	DisplayPath string          `json:"path"`
	SizeBytes   int64           `json:"sizeBytes"`
	Tokens      uint64          `json:"tokens"`
	ErrorKind   types.ErrorKind `json:"errorKind,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// Failed reports whether the file produced an error instead of a count.
func (result FileResult) Failed() bool {
	return result.ErrorKind != types.ErrorKindNone
}

func (result FileResult) withError(err error) FileResult {
	result.Tokens = 0
	result.ErrorKind = types.ClassifyError(err)
	result.Message = err.Error()
	return result
}

// CostEstimate prices a token total with a model's per-thousand rates.
type CostEstimate struct {
	Pricing               tokenizer.Pricing `json:"pricing"`
	InputTokens           uint64            `json:"inputTokens"`
	InputCost             float64           `json:"inputCost"`
	EstimatedOutputTokens uint64            `json:"estimatedOutputTokens"`
	OutputCost            float64           `json:"outputCost"`
	TotalCost             float64           `json:"totalCost"`
}

// EstimateCost prices totalTokens as input and EstimatedOutputRatio of it as output.
func EstimateCost(totalTokens uint64, pricing tokenizer.Pricing) CostEstimate {
	estimatedOutput := uint64(math.Round(float64(totalTokens) * EstimatedOutputRatio))
	inputCost := float64(totalTokens) / tokensPerPricingUnit * pricing.InputPerThousand
	outputCost := float64(estimatedOutput) / tokensPerPricingUnit * pricing.OutputPerThousand
	return CostEstimate{
		Pricing:               pricing,
		InputTokens:           totalTokens,
		InputCost:             inputCost,
		EstimatedOutputTokens: estimatedOutput,
		OutputCost:            outputCost,
		TotalCost:             inputCost + outputCost,
	}
}

// Summary is the aggregate of one counting run.
type Summary struct {
	Files         []FileResult  `json:"files"`
	TotalTokens   uint64        `json:"totalTokens"`
	FilesCounted  int           `json:"filesCounted"`
	FilesErrored  int           `json:"filesErrored"`
	TokenizerName string        `json:"tokenizer"`
	Workers       int           `json:"workers"`
	Elapsed       time.Duration `json:"elapsed"`
	Cost          *CostEstimate `json:"cost,omitempty"`
}

// TokensPerSecond reports throughput, or zero when no time elapsed.
func (summary Summary) TokensPerSecond() uint64 {
	seconds := summary.Elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return uint64(math.Round(float64(summary.TotalTokens) / seconds))
}

// fold aggregates results that are already in display-path order.
func fold(results []FileResult) Summary {
	summary := Summary{Files: results}
	for _, result := range results {
		if result.Failed() {
			summary.FilesErrored++
			continue
		}
		summary.FilesCounted++
		summary.TotalTokens += result.Tokens
	}
	return summary
}
