package cli

// This file contains the locate and catalog commands, which print what a
// run would use without executing anything.

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func (a *App) locate(ctx *cli.Context) error {
	exes, err := a.resolve(ctx)
	if err != nil {
		return err
	}

	optional := func(path string) string {
		if path == "" {
			return "(not built)"
		}
		return path
	}

	fmt.Printf("bin dir:            %s\n", exes.BinDir)
	fmt.Printf("cli:                %s\n", exes.CLI)
	fmt.Printf("tests:              %s\n", exes.Tests)
	fmt.Printf("random tests:       %s\n", exes.RandomTests)
	fmt.Printf("lookup table tests: %s\n", optional(exes.LookupTableTests))
	fmt.Printf("switch tests:       %s\n", optional(exes.SwitchTests))
	fmt.Printf("perf:               %s\n", exes.Perf)
	return nil
}

func (a *App) printCatalog(ctx *cli.Context) error {
	cat, err := loadCatalog(ctx.String("catalog"))
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Examples (%d total) ===\n\n", len(cat.Cases))
	for _, ec := range cat.Cases {
		dir := ""
		if ec.Dir != "" {
			dir = "  dir=" + ec.Dir
		}
		fmt.Printf("%-4s %-9s %s%s\n", ec.ID, ec.Mode, ec.Scenario(), dir)
	}

	fmt.Printf("\nPack:  %s/%s -> %s/%s\n", cat.Pack.Dir, cat.Pack.Name, cat.Pack.PackedDir, cat.Pack.PackedName)
	fmt.Printf("Bench: %s/%s\n", cat.Bench.Dir, cat.Bench.Name)
	return nil
}
