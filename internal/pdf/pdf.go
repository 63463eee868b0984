// Package pdf extracts embedded raster images from PDF documents so their
// barcodes can be decoded.
package pdf

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	_ "image/jpeg"
	_ "image/png"
)

// ExtractedImage is one raster image pulled out of a PDF page.
type ExtractedImage struct {
	Page  int
	Index int
	Image image.Image
}

// ExtractImages extracts embedded images from a PDF file, optionally limited
// to a page range like "1-5" or "1,3,5". Results are ordered by page, then
// by image index within the page.
func ExtractImages(filename string, pageRange string) ([]ExtractedImage, error) {
	pageNumbers, err := parsePageRange(pageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "pdf-extract-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var pageStrings []string
	if len(pageNumbers) > 0 {
		pageStrings = make([]string, len(pageNumbers))
		for i, pageNum := range pageNumbers {
			pageStrings[i] = strconv.Itoa(pageNum)
		}
	}

	if err := api.ExtractImagesFile(filename, tempDir, pageStrings, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}

	images, err := collectExtractedImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to process extracted images: %w", err)
	}
	return images, nil
}

func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: extracted image path under our temp dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}

// collectExtractedImages walks the extraction directory and loads every
// image pdfcpu produced.
func collectExtractedImages(dir string) ([]ExtractedImage, error) {
	var result []ExtractedImage

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		page, index, err := parseExtractedFilename(info.Name())
		if err != nil {
			// Skip files we can't attribute to a page
			return nil
		}

		img, err := loadImageFile(path)
		if err != nil || img == nil {
			// Skip unreadable images
			return nil
		}

		result = append(result, ExtractedImage{Page: page, Index: index, Image: img})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Page != result[j].Page {
			return result[i].Page < result[j].Page
		}
		return result[i].Index < result[j].Index
	})
	return result, nil
}

// parseExtractedFilename parses pdfcpu's extraction naming scheme,
// e.g. page_1_image_1.png or basename_1_Im0.png depending on version; the
// page number always follows the first underscore-separated numeric field.
func parseExtractedFilename(filename string) (page, index int, err error) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, 0, errors.New("invalid filename format")
	}

	numeric := make([]int, 0, 2)
	for _, part := range parts[1:] {
		if n, convErr := strconv.Atoi(part); convErr == nil {
			numeric = append(numeric, n)
		}
	}
	if len(numeric) == 0 {
		return 0, 0, errors.New("no page number in filename")
	}

	page = numeric[0]
	if len(numeric) > 1 {
		index = numeric[1]
	}
	return page, index, nil
}

// parsePageRange parses a page range string like "1-5" or "1,3,5". Empty
// means all pages.
func parsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		tokenPages, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, tokenPages...)
	}
	return pages, nil
}

// parseRangeToken parses either a single page token ("3") or a range ("1-5").
func parseRangeToken(part string) ([]int, error) {
	if strings.Contains(part, "-") {
		rangeParts := strings.Split(part, "-")
		if len(rangeParts) != 2 {
			return nil, fmt.Errorf("invalid range format: %s", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start page: %s", rangeParts[0])
		}
		end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid end page: %s", rangeParts[1])
		}
		if start > end {
			return nil, fmt.Errorf("start page %d greater than end page %d", start, end)
		}
		out := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
		return out, nil
	}
	page, err := strconv.Atoi(part)
	if err != nil {
		return nil, fmt.Errorf("invalid page number: %s", part)
	}
	return []int{page}, nil
}
