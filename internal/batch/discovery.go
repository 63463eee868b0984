package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/symscan/symscan/internal/utils"
)

// fileFilter applies include/exclude glob patterns to file base names.
// Exclude wins over include; an empty include list admits everything.
type fileFilter struct {
	include []string
	exclude []string
}

func (f fileFilter) admit(path string) bool {
	base := filepath.Base(path)
	if matchAny(f.exclude, base) {
		return false
	}
	return len(f.include) == 0 || matchAny(f.include, base)
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// shouldIncludeFile reports whether a path passes the include/exclude
// patterns.
func shouldIncludeFile(path string, include, exclude []string) bool {
	return fileFilter{include: include, exclude: exclude}.admit(path)
}

// discoverImageFiles expands the given files and directories into the list
// of image files to decode. Explicit file arguments only pass the pattern
// filter; files found inside directories must also carry a supported image
// extension.
func discoverImageFiles(args []string, recursive bool, include, exclude []string) ([]string, error) {
	filter := fileFilter{include: include, exclude: exclude}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			if filter.admit(arg) {
				files = append(files, arg)
			}
			continue
		}

		walkErr := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if !recursive && path != arg {
					return filepath.SkipDir
				}
				return nil
			}
			if utils.IsSupportedImage(path) && filter.admit(path) {
				files = append(files, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, walkErr)
		}
	}
	return files, nil
}
