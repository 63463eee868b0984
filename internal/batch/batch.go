// Package batch decodes barcodes from many image files in parallel.
package batch

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/symscan/symscan/internal/reader"
	"github.com/symscan/symscan/internal/utils"
)

// ProcessBatch decodes all images matching the given paths using the default
// barcode engine.
func ProcessBatch(imagePaths []string, config *Config) (*Result, error) {
	return ProcessBatchWithReader(reader.NewDefault(), imagePaths, config)
}

// ProcessBatchWithReader decodes all images matching the given paths with an
// explicit reader.
func ProcessBatchWithReader(r *reader.Reader, imagePaths []string, config *Config) (*Result, error) {
	files, err := discoverImageFiles(imagePaths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	workers := config.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	opts := reader.Options{
		TryHarder:  config.TryHarder,
		Formats:    config.Formats,
		MaxSymbols: config.MaxSymbols,
	}

	startTime := time.Now()
	results := decodeFilesParallel(r, files, opts, workers)
	duration := time.Since(startTime)

	if !config.ContinueOnError {
		for _, fr := range results {
			if fr.Err != "" {
				return nil, fmt.Errorf("failed to process %s: %s", fr.File, fr.Err)
			}
		}
	}

	return &Result{
		Files:       results,
		Duration:    duration,
		WorkerCount: workers,
	}, nil
}

// decodeFilesParallel fans file indices out to a fixed worker pool. Results
// keep the discovery order regardless of completion order.
func decodeFilesParallel(r *reader.Reader, files []string, opts reader.Options, workers int) []FileResult {
	results := make([]FileResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = decodeFile(r, files[i], opts)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func decodeFile(r *reader.Reader, path string, opts reader.Options) FileResult {
	data, err := utils.LoadImageBytes(path)
	if err != nil {
		return FileResult{File: path, Err: err.Error()}
	}

	records := r.DecodeImageMulti(data, opts)
	if len(records) == 1 && records[0].Error != "" && records[0].Format == "" {
		return FileResult{File: path, Err: records[0].Error}
	}
	return FileResult{File: path, Symbols: records}
}
