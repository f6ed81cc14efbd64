// Package ingest discovers and reads purchase-request messages from the
// filesystem, either in one batch scan or by watching a directory.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/order-intake/internal/entity"
)

// MessageExt is the extension (lowercase, without dot) of message files.
const MessageExt = "txt"

// FileResult records the outcome of reading one candidate file.
type FileResult struct {
	Path string
	ID   string
	Err  string
}

// DirStats aggregates a directory scan.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// ScanDirectory walks root, reads every .txt file as one raw message keyed
// by its base filename, and skips hidden files. An unreadable file is
// recorded as failed and the scan continues — a bad message never aborts
// the batch.
func ScanDirectory(root string, logger *slog.Logger) ([]entity.RawMessage, []FileResult, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("messages directory is required")
	}

	var msgs []entity.RawMessage
	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !allowed(path) {
			return nil
		}
		stats.Matched++

		text, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("ingest.read.failed", "path", path, "error", err)
			results = append(results, FileResult{Path: path, ID: filepath.Base(path), Err: err.Error()})
			stats.Failed++
			return nil
		}

		id := filepath.Base(path)
		msgs = append(msgs, entity.RawMessage{ID: id, Text: string(text)})
		results = append(results, FileResult{Path: path, ID: id})
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return msgs, results, stats, fmt.Errorf("walk: %w", err)
	}
	logger.Info("ingest.scan.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	return msgs, results, stats, nil
}

func allowed(path string) bool {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") == MessageExt
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
