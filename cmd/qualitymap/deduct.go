package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/gateway"
	"github.com/dshills/qualitymap/internal/notify"
	"github.com/dshills/qualitymap/internal/render"
	"github.com/dshills/qualitymap/internal/scorecard"
)

type deductFlags struct {
	kind        string
	criterionID int64
	column      int
	deduction   float64
	comment     string
}

func newDeductCmd(a *app) *cobra.Command {
	f := &deductFlags{}

	cmd := &cobra.Command{
		Use:   "deduct <map-id>",
		Short: "Create or update the deduction for one criterion and column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMapID(args[0])
			if err != nil {
				return err
			}
			return runDeduct(cmd.Context(), a, id, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.kind, "kind", "chat", "Column kind: chat or call")
	flags.Int64Var(&f.criterionID, "criterion", 0, "Criterion id")
	flags.IntVar(&f.column, "column", 0, "Column number, starting at 1")
	flags.Float64Var(&f.deduction, "deduction", 0, "Points to deduct (0-100)")
	flags.StringVar(&f.comment, "comment", "", "Reason for the deduction (required when deducting)")
	_ = cmd.MarkFlagRequired("criterion")
	_ = cmd.MarkFlagRequired("column")

	return cmd
}

func runDeduct(ctx context.Context, a *app, id int64, f *deductFlags) error {
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
	criteria, err := gw.FetchCriteria(ctx, q.TeamID)
	if err != nil {
		return exitError(exitGateway, "%v", err)
	}

	columns := scorecard.NewIdentityStore(q.ID, kind, q.Columns(kind), q.Slots(kind), gw)
	editor := scorecard.NewEditor(columns, criteria, q.Deductions(kind), gw)
	editor.Refetch = gateway.Refetcher(gw, q.ID, kind)

	if err := editor.Select(f.criterionID, f.column-1); err != nil {
		return a.editFailed(err)
	}
	form, err := editor.Open()
	if err != nil {
		return a.editFailed(err)
	}
	if form.Existing {
		a.log.Debug("updating deduction", "previous", form.Deduction, "column_id", form.ColumnID)
	}
	saved, err := editor.Submit(ctx, f.deduction, f.comment)
	if err != nil {
		return a.editFailed(err)
	}

	res := scorecard.Evaluate(editor.Input(true))
	score := res.Matrix.Total(f.column - 1)
	notify.Report(a.notify, nil, fmt.Sprintf("Deduction saved: %s now scores %s",
		render.ColumnHeader(kind, res.Matrix.Columns[f.column-1]), render.CellText(score)))
	a.log.Info("deduction saved", "quality_map_id", q.ID, "kind", string(kind),
		"criteria_id", saved.CriteriaID, "column_id", saved.ColumnID, "deduction", saved.Deduction)
	return nil
}

// editFailed notifies the user and maps the error class to an exit code.
func (a *app) editFailed(err error) error {
	notify.Report(a.notify, err, "")
	switch scorecard.ClassOf(err) {
	case scorecard.ClassPrecondition:
		return exitError(exitInput, "%v", err)
	case scorecard.ClassValidation:
		return exitError(exitValidation, "%v", err)
	case scorecard.ClassMutation:
		return exitError(exitGateway, "%v", err)
	default:
		return exitError(exitGeneric, "%v", err)
	}
}
