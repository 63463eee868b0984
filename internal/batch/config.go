package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/symscan/symscan/internal/reader"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Decode settings
	TryHarder  bool
	Formats    string
	MaxSymbols int

	// Output settings
	Format     string
	OutputFile string

	// Parallel processing settings
	Workers         int
	ContinueOnError bool

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress settings
	Quiet     bool
	ShowStats bool
}

// FileResult is the decode outcome for one input file.
type FileResult struct {
	File    string          `json:"file" yaml:"file"`
	Symbols []reader.Record `json:"symbols" yaml:"symbols"`
	Err     string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result holds the result of batch processing.
type Result struct {
	Files       []FileResult
	Duration    time.Duration
	WorkerCount int
}

// SymbolCount reports the total number of decoded symbols across all files.
func (r *Result) SymbolCount() int {
	total := 0
	for _, f := range r.Files {
		for _, s := range f.Symbols {
			if s.Decoded() {
				total++
			}
		}
	}
	return total
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Files, format)
}

// SaveResults saves the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}

	failed := 0
	for _, f := range r.Files {
		if f.Err != "" {
			failed++
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total files: %d\n", len(r.Files))
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", failed)
	_, _ = fmt.Fprintf(os.Stdout, "  Symbols decoded: %d\n", r.SymbolCount())
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if len(r.Files) > 0 {
		avg := r.Duration / time.Duration(len(r.Files))
		_, _ = fmt.Fprintf(os.Stdout, "  Avg per file: %v\n", avg.Round(time.Millisecond))
		_, _ = fmt.Fprintf(os.Stdout, "  Throughput: %.1f files/sec\n",
			float64(len(r.Files))/r.Duration.Seconds())
	}
}
