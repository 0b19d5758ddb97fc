package regress

// This file contains the example and load-pack equivalence phases.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bigladder/erinreg/compare"
	"github.com/bigladder/erinreg/model"
	"github.com/bigladder/erinreg/runner"
	"github.com/bigladder/erinreg/table"
)

func (o *Orchestrator) runExamples(ctx context.Context) error {
	o.logger.Info().Int("cases", len(o.catalog.Cases)).Msg("Running regression examples")

	for _, ec := range o.catalog.Cases {
		dir := filepath.Join(o.opts.ExamplesDir, ec.Dir)

		if _, err := o.runExample(ctx, dir, ec.ID, false); err != nil {
			fmt.Fprintln(o.out)
			return &PhaseError{Phase: PhaseExamples, Case: ec.ID, Err: err}
		}

		if ec.Mode == model.ModeFullDiff {
			comparisons := []struct {
				label     string
				reference string
				candidate string
			}{
				{ec.ID + "-out", ec.ReferenceOut(), outName},
				{ec.ID + "-stats", ec.ReferenceStats(), statsName},
			}
			for _, c := range comparisons {
				err := o.diffTables(c.label, filepath.Join(dir, c.reference), filepath.Join(dir, c.candidate))
				if err != nil {
					return &PhaseError{Phase: PhaseExamples, Case: ec.ID, Err: err}
				}
			}
		}

		o.logger.Debug().Str("case", ec.ID).Str("mode", string(ec.Mode)).Msg("Example passed")
		fmt.Fprint(o.out, ".")
	}

	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, "Passed all regression tests!")
	return nil
}

// runExample runs the engine on ex<name>.toml inside dir, writing out.csv and
// stats.csv there. Outputs left over from an earlier run are removed first.
func (o *Orchestrator) runExample(ctx context.Context, dir, name string, timed bool) (*runner.Result, error) {
	for _, stale := range []string{outName, statsName} {
		if err := removeIfExists(filepath.Join(dir, stale)); err != nil {
			return nil, err
		}
	}

	inv := runner.Invocation{
		Path:  o.exes.CLI,
		Args:  []string{"run", model.ScenarioFile(name), "-e", outName, "-s", statsName},
		Dir:   dir,
		Timed: timed,
	}
	res, err := o.runner.Run(ctx, inv)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return nil, o.executionFailure(fmt.Sprintf("error running CLI for example %s", name), inv, res)
	}
	return res, nil
}

func (o *Orchestrator) runPack(ctx context.Context) error {
	pc := o.catalog.Pack
	unpackedDir := filepath.Join(o.opts.ExamplesDir, pc.Dir)
	packedDir := filepath.Join(o.opts.ExamplesDir, pc.PackedDir)

	fail := func(err error) error {
		return &PhaseError{Phase: PhasePack, Case: pc.Name, Err: err}
	}

	// Run the unpacked scenario and keep its outputs
	if _, err := o.runExample(ctx, unpackedDir, pc.Name, false); err != nil {
		return fail(err)
	}
	unpackedOut, unpackedStats, err := preserveOutputs(unpackedDir, pc.Name)
	if err != nil {
		return fail(err)
	}

	// Pack the loads and hand them to the packed scenario
	if err := removeIfExists(filepath.Join(unpackedDir, packedLoadsName)); err != nil {
		return fail(err)
	}
	inv := runner.Invocation{
		Path: o.exes.CLI,
		Args: []string{"pack-loads", model.ScenarioFile(pc.Name), "-o", packedLoadsName},
		Dir:  unpackedDir,
	}
	res, err := o.runner.Run(ctx, inv)
	if err != nil {
		return fail(err)
	}
	if !res.Success() {
		return fail(o.executionFailure(fmt.Sprintf("error running pack-loads for example %s", pc.Name), inv, res))
	}
	packedLoads := filepath.Join(packedDir, fmt.Sprintf("ex%s-loads.csv", pc.PackedName))
	if err := moveFile(filepath.Join(unpackedDir, packedLoadsName), packedLoads); err != nil {
		return fail(err)
	}
	o.logger.Debug().Str("path", packedLoads).Msg("Packed loads written")

	// Run the packed scenario and keep its outputs
	if _, err := o.runExample(ctx, packedDir, pc.PackedName, false); err != nil {
		return &PhaseError{Phase: PhasePack, Case: pc.PackedName, Err: err}
	}
	packedOut, packedStats, err := preserveOutputs(packedDir, pc.PackedName)
	if err != nil {
		return fail(err)
	}

	// The unpacked outputs are the reference
	if err := o.diffTables(pc.PackedName+"-out", unpackedOut, packedOut); err != nil {
		return fail(err)
	}
	if err := o.diffTables(pc.PackedName+"-stats", unpackedStats, packedStats); err != nil {
		return fail(err)
	}

	fmt.Fprintln(o.out, "Passed load-packing test!")
	return nil
}

// preserveOutputs renames out.csv and stats.csv in dir to ex<name>-out.csv
// and ex<name>-stats.csv so a later run cannot overwrite them.
func preserveOutputs(dir, name string) (outPath, statsPath string, err error) {
	outPath = filepath.Join(dir, fmt.Sprintf("ex%s-out.csv", name))
	statsPath = filepath.Join(dir, fmt.Sprintf("ex%s-stats.csv", name))

	if err := moveFile(filepath.Join(dir, outName), outPath); err != nil {
		return "", "", err
	}
	if err := moveFile(filepath.Join(dir, statsName), statsPath); err != nil {
		return "", "", err
	}
	return outPath, statsPath, nil
}

// diffTables compares a produced table against its reference and, on a
// mismatch, writes the diff artifact when a diff directory is configured.
func (o *Orchestrator) diffTables(label, reference, candidate string) error {
	fd, err := Diff(o.out, reference, candidate, o.opts.Detailed)
	if err == nil {
		return nil
	}

	var discrepancy *DiscrepancyError
	if o.opts.DiffDir != "" && fd != nil && errors.As(err, &discrepancy) && discrepancy.Missing == "" {
		path, werr := writeDiffArtifact(o.opts.DiffDir, label, fd, discrepancy.Report)
		if werr != nil {
			o.logger.Warn().Err(werr).Msg("Failed to write diff file")
		} else {
			fmt.Fprintf(o.out, "diff file: %s\n", path)
		}
	}
	return err
}

// Diff compares a produced table against its reference: byte-exact first,
// then, when detailed is set and the bytes differ, structurally. Any
// difference is returned as a *DiscrepancyError after the diagnostics have
// been written to w.
func Diff(w io.Writer, reference, candidate string, detailed bool) (*compare.FileDiff, error) {
	fd, err := compare.Files(reference, candidate)
	if err != nil {
		return nil, err
	}
	if fd.Equal {
		return fd, nil
	}

	fmt.Fprintln(w)
	discrepancy := &DiscrepancyError{Reference: reference, Candidate: candidate}

	if fd.Missing != "" {
		fmt.Fprintf(w, "cannot compare %s against %s: %s does not exist\n", candidate, reference, fd.Missing)
		discrepancy.Missing = fd.Missing
		return fd, discrepancy
	}

	fmt.Fprintf(w, "diff did not compare clean for %s against %s\n", candidate, reference)
	fmt.Fprint(w, fd.Text)

	if detailed {
		refTable, err := table.Read(reference)
		if err != nil {
			return fd, err
		}
		candTable, err := table.Read(candidate)
		if err != nil {
			return fd, err
		}
		discrepancy.Report = compare.Compare(refTable, candTable)

		fmt.Fprintln(w, strings.Repeat("=", 20)+" DETAILED DIFF")
		fmt.Fprintf(w, "reference: %s\n", reference)
		fmt.Fprintf(w, "candidate: %s\n", candidate)
		fmt.Fprint(w, discrepancy.Report)
	}

	return fd, discrepancy
}

// writeDiffArtifact stores the raw diff, the structural report and both full
// tables in <dir>/diff_for_<label>.txt.
func writeDiffArtifact(dir, label string, fd *compare.FileDiff, report *compare.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create diff directory: %w", err)
	}

	reference, err := os.ReadFile(fd.Reference)
	if err != nil {
		return "", err
	}
	candidate, err := os.ReadFile(fd.Candidate)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(fd.Text)
	if report != nil {
		b.WriteString("== REPORT " + strings.Repeat("=", 40) + "\n")
		b.WriteString(report.String())
	}
	b.WriteString("== EXPECTED " + strings.Repeat("=", 40) + "\n")
	b.Write(reference)
	b.WriteString("== ACTUAL " + strings.Repeat("=", 40) + "\n")
	b.Write(candidate)

	path := filepath.Join(dir, fmt.Sprintf("diff_for_%s.txt", label))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write diff file: %w", err)
	}
	return path, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale output: %w", err)
	}
	return nil
}

// moveFile renames src to dst, replacing dst if it exists.
func moveFile(src, dst string) error {
	if err := removeIfExists(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return nil
}
