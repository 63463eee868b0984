// Package utils holds small shared helpers for file handling.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions lists the compressed image formats the decoder accepts.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// maxImageFileSize guards against accidentally slurping huge files.
const maxImageFileSize = 128 * 1024 * 1024

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions returns the accepted image extensions.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// LoadImageBytes reads an image file, rejecting unsupported or oversized
// files before touching their contents.
func LoadImageBytes(path string) ([]byte, error) {
	if !IsSupportedImage(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxImageFileSize {
		return nil, fmt.Errorf("image file too large: %s (%d bytes)", path, info.Size())
	}

	return os.ReadFile(path) //nolint:gosec // G304: caller-provided image path is expected
}
