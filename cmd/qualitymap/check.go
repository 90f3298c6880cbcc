package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/render"
	"github.com/dshills/qualitymap/internal/schema"
	"github.com/dshills/qualitymap/internal/snapshot"
)

type checkFlags struct {
	out       string
	kind      string
	editable  bool
	failBelow float64
}

func newCheckCmd(a *app) *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <snapshot-file>",
		Short: "Evaluate a scorecard snapshot offline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(a, args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.kind, "kind", "all", "Column kind: chat, call or all")
	flags.BoolVar(&f.editable, "editable", false, "Mark cells editable in JSON output")
	flags.Float64Var(&f.failBelow, "fail-below", 0, "Exit 2 when the overall average is below this score")

	return cmd
}

func runCheck(a *app, path string, f *checkFlags) error {
	a.log.Debug("loading snapshot", "path", path)
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

	kinds, err := parseKinds(f.kind, &snap.QualityMap)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}
	report := render.NewReport(&snap.QualityMap, snap.Hash, evaluate(&snap.QualityMap, snap.Criteria, kinds, f.editable)...)
	a.log.Debug("snapshot evaluated", "quality_map_id", report.QualityMapID,
		"filled", report.Overall.FilledCount, "average", report.Overall.AverageScore)

	if err := a.writeReport(report, f.out); err != nil {
		return err
	}

	if f.failBelow > 0 && report.Overall.AverageScore < f.failBelow {
		return exitError(exitThreshold, "average score %g is below %g", report.Overall.AverageScore, f.failBelow)
	}
	return nil
}
