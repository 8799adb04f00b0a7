// Package ingest discovers scanned certificate PDFs under a directory tree.
package ingest

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KhanhD1nh/compare-gcn/constants"
)

// FindCertificatePDFs walks root recursively and returns every .pdf whose
// base name carries the GCN marker, sorted lexicographically so batch
// submission order is stable across runs. Hidden files and directories are
// skipped. Unreadable subtrees are logged and skipped rather than failing
// the whole scan.
func FindCertificatePDFs(root string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Warn("skipping unreadable entry", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
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
		if constants.IsCertificatePDF(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	logger.Info("scan complete", "root", root, "found", len(files))
	return files, nil
}

// Limit truncates a scan result to the first n entries; n <= 0 means all.
func Limit(files []string, n int) []string {
	if n <= 0 || n >= len(files) {
		return files
	}
	return files[:n]
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
