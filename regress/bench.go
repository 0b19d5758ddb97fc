package regress

// This file contains the benchmark phase and the build and revision probes
// it records.

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bigladder/erinreg/history"
	"github.com/bigladder/erinreg/model"
	"github.com/bigladder/erinreg/runner"
)

func (o *Orchestrator) runBench(ctx context.Context) error {
	bc := o.catalog.Bench

	commit := o.revision(ctx)

	debug, err := o.isDebugBuild(ctx)
	if err != nil {
		return &PhaseError{Phase: PhaseBench, Err: err}
	}

	started := o.now()
	dir := filepath.Join(o.opts.ExamplesDir, bc.Dir)
	res, err := o.runExample(ctx, dir, bc.Name, true)
	if err != nil {
		return &PhaseError{Phase: PhaseBench, Case: bc.Name, Err: err}
	}

	record := model.BenchmarkRecord{
		Timestamp: started,
		Commit:    commit,
		Debug:     debug,
		Name:      bc.Name,
	}
	if res.Elapsed != nil {
		record.Elapsed = *res.Elapsed
	}

	if err := history.Append(o.opts.BenchmarkFile, record); err != nil {
		return &PhaseError{Phase: PhaseBench, Case: bc.Name, Err: err}
	}

	o.logger.Info().
		Str("case", bc.Name).
		Str("commit", commit).
		Bool("debug", debug).
		Dur("elapsed", record.Elapsed).
		Str("log", o.opts.BenchmarkFile).
		Msg("Benchmark recorded")
	fmt.Fprintln(o.out, "Ran all benchmarks")
	return nil
}

// revision returns the current git commit, or model.NoRevision when it
// cannot be determined.
func (o *Orchestrator) revision(ctx context.Context) string {
	res, err := o.runner.Run(ctx, runner.Invocation{
		Path: o.git,
		Args: []string{"rev-parse", "HEAD"},
		Dir:  o.opts.ExamplesDir,
	})
	if err != nil {
		o.logger.Debug().Err(err).Msg("Failed to run git")
		return model.NoRevision
	}
	if !res.Success() {
		o.logger.Debug().Int("exit_code", res.ExitCode).Msg("Failed to get git commit")
		return model.NoRevision
	}

	commit := strings.TrimSpace(string(res.Stdout))
	if commit == "" {
		return model.NoRevision
	}
	return commit
}

// isDebugBuild checks the engine's version output for the debug build marker.
func (o *Orchestrator) isDebugBuild(ctx context.Context) (bool, error) {
	res, err := o.runner.Run(ctx, runner.Invocation{
		Path: o.exes.CLI,
		Args: []string{"version"},
	})
	if err != nil {
		return false, err
	}
	if !res.Success() {
		o.logger.Warn().Int("exit_code", res.ExitCode).Msg("Engine version query failed, assuming release build")
	}
	return strings.Contains(string(res.Stdout), debugMarker), nil
}
