package cli

// This file contains the compare command for checking a single table
// against its reference outside of a regression run.

import (
	"fmt"
	"os"

	"github.com/bigladder/erinreg/regress"
	"github.com/urfave/cli/v2"
)

func (a *App) compare(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("expected REFERENCE and CANDIDATE, got %d argument(s)", ctx.NArg())
	}
	reference := ctx.Args().Get(0)
	candidate := ctx.Args().Get(1)

	a.logger.Debug().
		Str("reference", reference).
		Str("candidate", candidate).
		Msg("Comparing tables")

	if _, err := regress.Diff(os.Stdout, reference, candidate, !ctx.Bool("no-detail")); err != nil {
		return err
	}

	fmt.Printf("%s matches %s\n", candidate, reference)
	return nil
}
