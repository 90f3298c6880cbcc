package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/gateway"
	"github.com/dshills/qualitymap/internal/notify"
	"github.com/dshills/qualitymap/internal/scorecard"
)

type renameFlags struct {
	kind   string
	column int
	id     string
}

func newRenameCmd(a *app) *cobra.Command {
	f := &renameFlags{}

	cmd := &cobra.Command{
		Use:   "rename <map-id>",
		Short: "Set or change the chat/call identifier of one column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMapID(args[0])
			if err != nil {
				return err
			}
			return runRename(cmd.Context(), a, id, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.kind, "kind", "chat", "Column kind: chat or call")
	flags.IntVar(&f.column, "column", 0, "Column number, starting at 1")
	flags.StringVar(&f.id, "id", "", "New identifier (empty clears the column)")
	_ = cmd.MarkFlagRequired("column")

	return cmd
}

func runRename(ctx context.Context, a *app, id int64, f *renameFlags) error {
	kind, err := parseKind(f.kind)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}

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

	columns := scorecard.NewIdentityStore(q.ID, kind, q.Columns(kind), q.Slots(kind), gw)
	before := columns.Get(f.column - 1)
	if err := columns.Rename(ctx, f.column-1, f.id); err != nil {
		return a.editFailed(err)
	}
	after := columns.Get(f.column - 1)
	if before == after {
		notify.Report(a.notify, nil, fmt.Sprintf("%s %d unchanged", kind.Label(), f.column))
		return nil
	}
	notify.Report(a.notify, nil, fmt.Sprintf("%s %d set to %q", kind.Label(), f.column, after))
	return nil
}
