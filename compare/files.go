package compare

// This file contains the byte-level comparison used as the first, cheap tier
// before a structural comparison.

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// FileDiff is the outcome of comparing two files byte by byte.
type FileDiff struct {
	Reference string
	Candidate string
	// Equal is true when both files exist and are byte-identical.
	Equal bool
	// Missing names a file that does not exist.
	Missing string
	// Text is a line-oriented diff, set when both files exist and differ.
	Text string
}

// Files compares the reference and candidate files byte by byte. A missing
// file is reported as a difference, not an error.
func Files(referencePath, candidatePath string) (*FileDiff, error) {
	fd := &FileDiff{Reference: referencePath, Candidate: candidatePath}

	ref, err := os.ReadFile(referencePath)
	if errors.Is(err, fs.ErrNotExist) {
		fd.Missing = referencePath
		return fd, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}

	cand, err := os.ReadFile(candidatePath)
	if errors.Is(err, fs.ErrNotExist) {
		fd.Missing = candidatePath
		return fd, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate: %w", err)
	}

	if bytes.Equal(ref, cand) {
		fd.Equal = true
		return fd, nil
	}

	fd.Text = LineDiff(string(ref), string(cand))
	return fd, nil
}

// LineDiff renders the changed lines between two texts. Lines only in the
// reference are prefixed with "-" and lines only in the candidate with "+".
func LineDiff(reference, candidate string) string {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lineArray := dmp.DiffLinesToChars(reference, candidate)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out strings.Builder
	refLine := 1
	inHunk := false
	for _, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			refLine += len(lines)
			inHunk = false
		case diffmatchpatch.DiffDelete:
			if !inHunk {
				fmt.Fprintf(&out, "@@ line %d @@\n", refLine)
				inHunk = true
			}
			for _, l := range lines {
				fmt.Fprintf(&out, "-%s\n", l)
			}
			refLine += len(lines)
		case diffmatchpatch.DiffInsert:
			if !inHunk {
				fmt.Fprintf(&out, "@@ line %d @@\n", refLine)
				inHunk = true
			}
			for _, l := range lines {
				fmt.Fprintf(&out, "+%s\n", l)
			}
		}
	}
	return out.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
