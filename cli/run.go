package cli

// This file contains the run command which resolves the engine build and
// drives the regression phases.

import (
	"fmt"

	"github.com/bigladder/erinreg/catalog"
	"github.com/bigladder/erinreg/history"
	"github.com/bigladder/erinreg/model"
	"github.com/bigladder/erinreg/platform"
	"github.com/bigladder/erinreg/regress"
	"github.com/bigladder/erinreg/runner"
	"github.com/urfave/cli/v2"
)

func (a *App) run(ctx *cli.Context) error {
	examplesDir := ctx.String("examples-dir")
	root := rootDir(ctx)

	phases, err := parsePhases(ctx.StringSlice("phase"))
	if err != nil {
		return err
	}

	cat, err := loadCatalog(ctx.String("catalog"))
	if err != nil {
		return err
	}

	exes, err := a.resolve(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to resolve engine executables")
		return err
	}

	benchFile := ctx.String("bench-file")
	if benchFile == "" {
		benchFile = history.DefaultPath(root)
	}

	a.logger.Info().
		Str("examples", examplesDir).
		Str("root", root).
		Int("cases", len(cat.Cases)).
		Msg("Starting regression run")

	orch := regress.New(a.logger, runner.New(a.logger), exes, cat, regress.Options{
		ExamplesDir:   examplesDir,
		BenchmarkFile: benchFile,
		DiffDir:       ctx.String("diff-dir"),
		Detailed:      !ctx.Bool("no-detail"),
		PerfFatal:     ctx.Bool("perf-fatal"),
	})

	return orch.Run(ctx.Context, phases...)
}

// resolve detects the platform once and locates the executables for it.
func (a *App) resolve(ctx *cli.Context) (model.ExecutableSet, error) {
	p, err := platform.Detect()
	if err != nil {
		return model.ExecutableSet{}, err
	}
	a.logger.Debug().Str("os", p.OS).Msg("Detected platform")

	return platform.Resolve(a.logger, p, rootDir(ctx), platform.Options{
		BinDir: ctx.String("bin-dir"),
	})
}

func parsePhases(names []string) ([]regress.Phase, error) {
	var phases []regress.Phase
	for _, name := range names {
		p, err := regress.ParsePhase(name)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return cat, nil
}
