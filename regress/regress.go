// Package regress sequences the regression run against an engine build.
// Phases run strictly in order and the run aborts at the first failure.
package regress

// This file contains the orchestrator and the phases that only run binaries.

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bigladder/erinreg/catalog"
	"github.com/bigladder/erinreg/history"
	"github.com/bigladder/erinreg/model"
	"github.com/bigladder/erinreg/runner"
	"github.com/rs/zerolog"
)

// Phase names a step of the regression run.
type Phase string

const (
	PhaseLimits   Phase = "limits"
	PhaseUnit     Phase = "unit"
	PhaseExamples Phase = "examples"
	PhasePack     Phase = "pack"
	PhasePerf     Phase = "perf"
	PhaseBench    Phase = "bench"
)

// AllPhases lists every phase in execution order.
var AllPhases = []Phase{PhaseLimits, PhaseUnit, PhaseExamples, PhasePack, PhasePerf, PhaseBench}

// ParsePhase converts a phase name.
func ParsePhase(s string) (Phase, error) {
	for _, p := range AllPhases {
		if string(p) == s {
			return p, nil
		}
	}
	names := make([]string, len(AllPhases))
	for i, p := range AllPhases {
		names[i] = string(p)
	}
	return "", fmt.Errorf("unknown phase %q (valid: %s)", s, strings.Join(names, ", "))
}

// Output file names written by the engine and the pack-loads operation.
const (
	outName         = "out.csv"
	statsName       = "stats.csv"
	packedLoadsName = "packed-loads.csv"
)

// debugMarker is looked for in the output of "<engine> version".
const debugMarker = "Build Type: Debug"

// Options configures a regression run.
type Options struct {
	// Directory holding the example scenarios and reference tables
	ExamplesDir string
	// Benchmark log appended to by the bench phase
	BenchmarkFile string
	// When set, a diff artifact is written here for every failed comparison
	DiffDir string
	// Print the structural report after a byte-level mismatch
	Detailed bool
	// Treat a failing performance binary as fatal
	PerfFatal bool
}

// Orchestrator runs the regression phases against one executable set.
type Orchestrator struct {
	logger  zerolog.Logger
	runner  runner.Runner
	exes    model.ExecutableSet
	catalog *catalog.Catalog
	opts    Options
	out     io.Writer
	git     string
	now     func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOutput sets where diagnostics and reports are written (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.out = w
	}
}

// WithGit sets the git executable used to query the revision.
func WithGit(path string) Option {
	return func(o *Orchestrator) {
		o.git = path
	}
}

// WithClock sets the clock used for benchmark timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an orchestrator.
func New(logger zerolog.Logger, r runner.Runner, exes model.ExecutableSet, cat *catalog.Catalog, opts Options, options ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:  logger,
		runner:  r,
		exes:    exes,
		catalog: cat,
		opts:    opts,
		out:     os.Stdout,
		git:     "git",
		now:     time.Now,
	}
	if o.opts.ExamplesDir == "" {
		o.opts.ExamplesDir = "."
	}
	if o.opts.BenchmarkFile == "" {
		o.opts.BenchmarkFile = history.DefaultPath(filepath.Join(o.opts.ExamplesDir, "..", ".."))
	}

	for _, opt := range options {
		opt(o)
	}
	return o
}

// Run executes the selected phases (all when none are given) in their fixed
// order. A nil error is the success state; otherwise the returned
// *PhaseError names the phase the run aborted in, and diagnostics have
// already been written to the output.
func (o *Orchestrator) Run(ctx context.Context, phases ...Phase) error {
	selected := make(map[Phase]bool, len(AllPhases))
	if len(phases) == 0 {
		phases = AllPhases
	}
	for _, p := range phases {
		selected[p] = true
	}

	steps := map[Phase]func(context.Context) error{
		PhaseLimits:   o.runLimits,
		PhaseUnit:     o.runUnitTests,
		PhaseExamples: o.runExamples,
		PhasePack:     o.runPack,
		PhasePerf:     o.runPerf,
		PhaseBench:    o.runBench,
	}

	start := time.Now()
	for _, p := range AllPhases {
		if !selected[p] {
			continue
		}

		o.logger.Info().Str("phase", string(p)).Msg("Starting phase")
		if err := steps[p](ctx); err != nil {
			o.logger.Error().Err(err).Str("phase", string(p)).Msg("Regression run failed")
			return err
		}
	}

	o.logger.Info().Dur("duration", time.Since(start)).Msg("Regression run succeeded")
	return nil
}

func (o *Orchestrator) runLimits(ctx context.Context) error {
	inv := runner.Invocation{Path: o.exes.CLI, Args: []string{"limits"}}
	res, err := o.runner.Run(ctx, inv)
	if err != nil {
		return &PhaseError{Phase: PhaseLimits, Err: err}
	}
	if !res.Success() {
		return &PhaseError{Phase: PhaseLimits, Err: o.executionFailure("engine limits failed", inv, res)}
	}

	fmt.Fprint(o.out, string(res.Stdout))
	return nil
}

func (o *Orchestrator) runUnitTests(ctx context.Context) error {
	for _, bin := range o.exes.TestBinaries() {
		inv := runner.Invocation{Path: bin}
		res, err := o.runner.Run(ctx, inv)
		if err != nil {
			return &PhaseError{Phase: PhaseUnit, Err: err}
		}

		stem := strings.TrimSuffix(filepath.Base(bin), filepath.Ext(bin))
		if !res.Success() {
			fmt.Fprintln(o.out)
			return &PhaseError{
				Phase: PhaseUnit,
				Case:  stem,
				Err:   o.executionFailure(fmt.Sprintf("test '%s' did not pass", stem), inv, res),
			}
		}

		o.logger.Debug().Str("test", stem).Msg("Test binary passed")
		fmt.Fprint(o.out, ".")
	}

	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, "Passed all unit tests!")
	return nil
}

func (o *Orchestrator) runPerf(ctx context.Context) error {
	inv := runner.Invocation{Path: o.exes.Perf}
	res, err := o.runner.Run(ctx, inv)
	if err != nil {
		return &PhaseError{Phase: PhasePerf, Err: err}
	}

	if !res.Success() {
		failure := o.executionFailure("performance test failed", inv, res)
		if o.opts.PerfFatal {
			return &PhaseError{Phase: PhasePerf, Err: failure}
		}
		o.logger.Warn().Int("exit_code", res.ExitCode).Msg("Performance test failed, continuing")
	} else {
		fmt.Fprint(o.out, string(res.Stdout))
	}

	fmt.Fprintln(o.out, "All performance tests run")
	return nil
}

// executionFailure prints the captured output of a failed process and
// returns the matching error.
func (o *Orchestrator) executionFailure(title string, inv runner.Invocation, res *runner.Result) *ExecutionFailure {
	cmd := runner.Command(inv)

	fmt.Fprintln(o.out, title)
	fmt.Fprintf(o.out, "Command: %s\n", cmd)
	fmt.Fprintf(o.out, "Exit code: %d\n", res.ExitCode)
	fmt.Fprintln(o.out, "stdout:")
	fmt.Fprint(o.out, string(res.Stdout))
	fmt.Fprintln(o.out, "stderr:")
	fmt.Fprint(o.out, string(res.Stderr))

	return &ExecutionFailure{
		Command:  cmd,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
}
