package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/temirov/summarize/internal/accountant"
	"github.com/temirov/summarize/internal/tokenizer"
	"github.com/temirov/summarize/internal/types"
)

func sampleSummary() accountant.Summary {
	return accountant.Summary{
		Files: []accountant.FileResult{
			{DisplayPath: "a.py", SizeBytes: 1024, Tokens: 1200},
			{DisplayPath: "broken.bin", SizeBytes: 3, ErrorKind: types.ErrorKindDecode, Message: "decode error"},
			{DisplayPath: "z/long_name.go", SizeBytes: 10, Tokens: 34},
		},
		TotalTokens:   1234,
		FilesCounted:  2,
		FilesErrored:  1,
		TokenizerName: "cl100k_base",
		Workers:       4,
		Elapsed:       2 * time.Second,
	}
}

func TestWriteTokenReport(testingHandle *testing.T) {
	testingHandle.Parallel()

	pricedSummary := sampleSummary()
	estimate := accountant.EstimateCost(10000, tokenizer.Pricing{InputPerThousand: 0.01, OutputPerThousand: 0.03})
	pricedSummary.Cost = &estimate

	testCases := []struct {
		name              string
		summary           accountant.Summary
		options           ReportOptions
		expectedFragments []string
		absentFragments   []string
	}{
		{
			name:    "plain",
			summary: sampleSummary(),
			expectedFragments: []string{
				"Total tokens: 1,234\n",
				"Files processed: 2\n",
				"Files with errors: 1\n",
				"Time taken: 2.00 seconds (617 tokens/sec)\n",
			},
			absentFragments: []string{"TOTAL", "Estimated cost"},
		},
		{
			name:    "verbose",
			summary: sampleSummary(),
			options: ReportOptions{Verbose: true},
			expectedFragments: []string{
				"File",
				"a.py",
				"1.0 KiB",
				"error: decode",
				"z/long_name.go",
				"TOTAL",
				"1,234",
			},
			absentFragments: []string{"Total tokens:"},
		},
		{
			name:    "priced",
			summary: pricedSummary,
			options: ReportOptions{ModelName: "GPT-4 Turbo"},
			expectedFragments: []string{
				"\nEstimated cost (GPT-4 Turbo):\n",
				"  Input: $0.1000 (10,000 tokens @ $0.0100/1K tokens)\n",
				"  Output: $0.0600 (est. 2,000 tokens @ $0.0300/1K tokens)*\n",
				"  Total: $0.1600\n",
				"* Output tokens are estimated at 20% of input tokens\n",
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingHandle.Run(testCase.name, func(subTestHandle *testing.T) {
			subTestHandle.Parallel()
			var buffer bytes.Buffer
			if reportError := WriteTokenReport(&buffer, testCase.summary, testCase.options); reportError != nil {
				subTestHandle.Fatalf("WriteTokenReport error: %v", reportError)
			}
			rendered := buffer.String()
			for _, fragment := range testCase.expectedFragments {
				if !strings.Contains(rendered, fragment) {
					subTestHandle.Fatalf("expected %q in report:\n%s", fragment, rendered)
				}
			}
			for _, fragment := range testCase.absentFragments {
				if strings.Contains(rendered, fragment) {
					subTestHandle.Fatalf("did not expect %q in report:\n%s", fragment, rendered)
				}
			}
		})
	}
}

func TestVerboseReportAlignsColumns(testingHandle *testing.T) {
	testingHandle.Parallel()
	var buffer bytes.Buffer
	if reportError := WriteTokenReport(&buffer, sampleSummary(), ReportOptions{Verbose: true}); reportError != nil {
		testingHandle.Fatalf("WriteTokenReport error: %v", reportError)
	}
	lines := strings.Split(buffer.String(), "\n")
	sizeColumn := strings.Index(lines[0], "Size")
	for _, line := range lines[1:4] {
		if len(line) <= sizeColumn || line[sizeColumn-1] != ' ' {
			testingHandle.Fatalf("row %q is not aligned to column %d", line, sizeColumn)
		}
	}
}

func TestWriteTokenReportJSON(testingHandle *testing.T) {
	testingHandle.Parallel()
	var buffer bytes.Buffer
	if reportError := WriteTokenReportJSON(&buffer, sampleSummary()); reportError != nil {
		testingHandle.Fatalf("WriteTokenReportJSON error: %v", reportError)
	}
	var decoded map[string]any
	if decodeError := json.Unmarshal(buffer.Bytes(), &decoded); decodeError != nil {
		testingHandle.Fatalf("invalid JSON: %v", decodeError)
	}
	if decoded["totalTokens"] != float64(1234) || decoded["tokenizer"] != "cl100k_base" {
		testingHandle.Fatalf("unexpected JSON report %v", decoded)
	}
	if _, hasCost := decoded["cost"]; hasCost {
		testingHandle.Fatalf("unexpected cost in unpriced report")
	}
}
