package history

// This file contains the benchmark log: an append-only file holding one JSON
// record per line, shared across harness runs.

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bigladder/erinreg/model"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

type Entry struct {
	Record model.BenchmarkRecord
	// Line number in the log, starting at 1
	Line int
}

// DefaultPath returns the benchmark log location below the repository root.
func DefaultPath(root string) string {
	return filepath.Join(root, "benchmark", "benchmark.txt")
}

// Append adds one record to the log at path, creating its directory if
// needed. Concurrent harness runs are serialized by an advisory lock on
// "<path>.lock".
func Append(path string, record model.BenchmarkRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create benchmark directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("failed to marshal benchmark record: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock benchmark log: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open benchmark log: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write benchmark log: %w", err)
	}
	return f.Close()
}

// LoadEntries reads all records from the log at path in file order. A missing
// log yields no entries. Lines that cannot be parsed are logged and skipped.
func LoadEntries(logger zerolog.Logger, path string) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record model.BenchmarkRecord
		if err := json.Unmarshal(line, &record); err != nil {
			logger.Warn().Err(err).Str("path", path).Int("line", lineNo).Msg("Failed to parse benchmark record")
			continue
		}
		entries = append(entries, Entry{Record: record, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read benchmark log: %w", err)
	}

	return entries, nil
}
