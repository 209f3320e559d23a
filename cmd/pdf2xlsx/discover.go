package main

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/invoicetools/pdf2xlsx/constants"
)

// findPDFFiles walks root and returns the matching files in sorted
// order, so batch processing (and therefore the workbook) is
// deterministic regardless of filesystem iteration order. Hidden files
// and directories are skipped.
func findPDFFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if constants.IsAllowedPath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
