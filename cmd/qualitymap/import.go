package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/schema"
	"github.com/dshills/qualitymap/internal/snapshot"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot-file>",
		Short: "Load a scorecard snapshot into the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), a, args[0])
		},
	}
}

func runImport(ctx context.Context, a *app, path string) error {
	snap, err := snapshot.Load(path)
	if err != nil {
		return exitError(exitInput, "failed to load snapshot: %v", err)
	}
	if errs := schema.Validate(snap); len(errs) > 0 {
		fmt.Fprintln(a.stderr, "Snapshot validation errors:")
		for _, e := range errs {
			fmt.Fprintf(a.stderr, "  %s\n", e)
		}
		return exitError(exitValidation, "snapshot %s failed validation (%d errors)", path, len(errs))
	}

	st, err := a.openStore(ctx, a.cfg.Store, a.log)
	if err != nil {
		return exitError(exitGateway, "%v", err)
	}
	defer st.Close()

	res, err := st.Import(ctx, snap)
	if err != nil {
		return exitError(exitGateway, "%v", err)
	}
	fmt.Fprintf(a.stdout, "Imported quality map %d: %d criteria, %d deductions\n",
		res.QualityMapID, res.Criteria, res.Deductions)
	return nil
}
