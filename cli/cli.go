package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "erinreg"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Regression and benchmark harness for the ERIN simulation engine",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Run the regression phases against the engine build",
		Action: app.run,
		Flags: append(locateFlags(),
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "YAML catalog of example cases (default: built-in catalog)",
				EnvVars: []string{"ERINREG_CATALOG"},
			},
			&cli.StringSliceFlag{
				Name:    "phase",
				Aliases: []string{"p"},
				Usage:   "Phase to run: limits, unit, examples, pack, perf, bench (can be specified multiple times, default: all)",
			},
			&cli.StringFlag{
				Name:    "bench-file",
				Usage:   "Benchmark log to append to (default: <root>/benchmark/benchmark.txt)",
				EnvVars: []string{"ERINREG_BENCH_FILE"},
			},
			&cli.StringFlag{
				Name:  "diff-dir",
				Usage: "Write a diff file for every failed comparison into this directory",
			},
			&cli.BoolFlag{
				Name:  "no-detail",
				Usage: "Skip the structural comparison after a byte-level mismatch",
			},
			&cli.BoolFlag{
				Name:  "perf-fatal",
				Usage: "Abort the run when the performance test fails",
			},
		),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "compare",
		Usage:     "Compare a produced table against a reference table",
		ArgsUsage: "REFERENCE CANDIDATE",
		Action:    app.compare,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-detail",
				Usage: "Skip the structural comparison after a byte-level mismatch",
			},
		},
		Description: `Compare two CSV tables the way the regression run does: byte-exact
first, and on a mismatch a structural breakdown locating every differing
column, row and value.

Examples:
  erinreg compare ex01-out.csv out.csv`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "locate",
		Usage:  "Print the engine executables resolved for this platform",
		Action: app.locate,
		Flags:  locateFlags(),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "catalog",
		Usage:  "Print the example cases of the catalog",
		Action: app.printCatalog,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "YAML catalog of example cases (default: built-in catalog)",
				EnvVars: []string{"ERINREG_CATALOG"},
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List benchmark records",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "bench-file",
				Usage:   "Benchmark log to read (default: <root>/benchmark/benchmark.txt)",
				EnvVars: []string{"ERINREG_BENCH_FILE"},
			},
			examplesDirFlag(),
			rootFlag(),
			&cli.StringFlag{
				Name:  "name",
				Usage: "Filter by example name",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	return app
}

func locateFlags() []cli.Flag {
	return []cli.Flag{
		examplesDirFlag(),
		rootFlag(),
		&cli.StringFlag{
			Name:    "bin-dir",
			Usage:   "Directory holding the engine executables (overrides platform defaults)",
			EnvVars: []string{"ERINREG_BIN_DIR"},
		},
	}
}

func examplesDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "examples-dir",
		Usage:   "Directory holding the example scenarios and references",
		Value:   ".",
		EnvVars: []string{"ERINREG_EXAMPLES_DIR"},
	}
}

func rootFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "root",
		Usage:   "Repository root of the engine (default: <examples-dir>/../..)",
		EnvVars: []string{"ERINREG_ROOT"},
	}
}

// rootDir returns the repository root from --root, or two levels above the
// examples directory.
func rootDir(ctx *cli.Context) string {
	if root := ctx.String("root"); root != "" {
		return root
	}
	return filepath.Join(ctx.String("examples-dir"), "..", "..")
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
