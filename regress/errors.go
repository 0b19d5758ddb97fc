package regress

import (
	"fmt"

	"github.com/bigladder/erinreg/compare"
)

// ExecutionFailure is returned when a child process ran but exited non-zero.
type ExecutionFailure struct {
	Command  string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// DiscrepancyError is returned when an output table does not match its
// reference.
type DiscrepancyError struct {
	Reference string
	Candidate string
	// Missing names a file that did not exist.
	Missing string
	// Report is the structural breakdown; nil when it was not computed.
	Report *compare.Report
}

func (e *DiscrepancyError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("cannot compare %s against %s: %s does not exist", e.Candidate, e.Reference, e.Missing)
	}
	if e.Report != nil {
		return fmt.Sprintf("%s differs from %s (%d discrepancies)", e.Candidate, e.Reference, len(e.Report.Discrepancies))
	}
	return fmt.Sprintf("%s differs from %s", e.Candidate, e.Reference)
}

// PhaseError records the phase (and example case, if any) a run aborted in.
type PhaseError struct {
	Phase Phase
	Case  string
	Err   error
}

func (e *PhaseError) Error() string {
	if e.Case != "" {
		return fmt.Sprintf("%s phase failed for %s: %v", e.Phase, e.Case, e.Err)
	}
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
