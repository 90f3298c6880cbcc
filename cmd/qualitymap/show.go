package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/gateway"
	"github.com/dshills/qualitymap/internal/render"
)

type showFlags struct {
	out      string
	kind     string
	viewOnly bool
	teamID   int64
}

func newShowCmd(a *app) *cobra.Command {
	f := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show <map-id>",
		Short: "Fetch a quality map and render its scorecard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMapID(args[0])
			if err != nil {
				return err
			}
			return runShow(cmd.Context(), a, id, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.kind, "kind", "all", "Column kind: chat, call or all")
	flags.BoolVar(&f.viewOnly, "view-only", false, "Render without edit affordances")
	flags.Int64Var(&f.teamID, "team", 0, "Team whose criteria apply (default: the map's team)")

	return cmd
}

func runShow(ctx context.Context, a *app, id int64, f *showFlags) error {
	gw, closeGW, err := a.openGateway(ctx, a.cfg, a.log)
	if err != nil {
		return exitError(exitGateway, "gateway: %v", err)
	}
	defer closeGW()

	q, err := gw.FetchQualityMap(ctx, id)
	if err != nil {
		if gateway.IsNotFound(err) {
			return exitError(exitInput, "quality map %d not found", id)
		}
		return exitError(exitGateway, "%v", err)
	}
	teamID := f.teamID
	if teamID == 0 {
		teamID = q.TeamID
	}
	criteria, err := gw.FetchCriteria(ctx, teamID)
	if err != nil {
		return exitError(exitGateway, "%v", err)
	}

	kinds, err := parseKinds(f.kind, q)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}
	report := render.NewReport(q, gw.Name(), evaluate(q, criteria, kinds, !f.viewOnly)...)
	return a.writeReport(report, f.out)
}
