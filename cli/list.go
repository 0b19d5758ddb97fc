package cli

// This file contains the list command for displaying recorded benchmarks.

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bigladder/erinreg/history"
	"github.com/bigladder/erinreg/model"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	filterName := ctx.String("name")
	limit := ctx.Int("limit")

	path := ctx.String("bench-file")
	if path == "" {
		path = history.DefaultPath(rootDir(ctx))
	}

	// Load all benchmark records
	entries, err := history.LoadEntries(a.logger, path)
	if err != nil {
		return fmt.Errorf("failed to load benchmarks: %w", err)
	}

	entries = filterEntries(entries, filterName)
	if len(entries) == 0 {
		if filterName != "" {
			fmt.Printf("No benchmark records found matching name: %s\n", filterName)
		} else {
			fmt.Printf("No benchmark records found in %s\n", path)
		}
		return nil
	}

	// Sort by timestamp (newest first)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Record.Timestamp.After(entries[j].Record.Timestamp)
	})

	// Apply limit
	display := entries
	if limit > 0 && limit < len(display) {
		display = display[:limit]
	}

	fmt.Printf("\n=== Benchmarks (%d total) ===\n\n", len(entries))

	for _, entry := range display {
		fmt.Println(formatRecord(entry.Record))
	}
	fmt.Printf("\nLog: %s\n", path)

	return nil
}

func filterEntries(entries []history.Entry, name string) []history.Entry {
	if name == "" {
		return entries
	}
	var out []history.Entry
	for _, entry := range entries {
		if strings.Contains(entry.Record.Name, name) {
			out = append(out, entry)
		}
	}
	return out
}

// formatRecord renders one benchmark record as a single display line.
func formatRecord(r model.BenchmarkRecord) string {
	build := "release"
	if r.Debug {
		build = "debug"
	}

	// Show short commit (first 8 chars)
	commit := r.Commit
	if commit != model.NoRevision && len(commit) > 8 {
		commit = commit[:8]
	}

	return fmt.Sprintf("%s  %-16s [%s]  %-7s  commit=%s",
		r.Timestamp.Format("2006-01-02 15:04:05"),
		r.Name,
		r.Elapsed.Round(time.Millisecond),
		build,
		commit,
	)
}
