package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/preset"
	"github.com/dshills/qualitymap/internal/scorecard"
	"github.com/dshills/qualitymap/internal/store"
)

type createFlags struct {
	preset   string
	teamID   int64
	employee string
	chats    int
	calls    int
	seed     bool
}

func newCreateCmd(a *app) *cobra.Command {
	f := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quality map in the local store from a preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("chats") {
				f.chats = -1
			}
			if !flags.Changed("calls") {
				f.calls = -1
			}
			return runCreate(cmd.Context(), a, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.preset, "preset", "standard", "Preset name (see 'qualitymap presets')")
	flags.Int64Var(&f.teamID, "team", 0, "Team id")
	flags.StringVar(&f.employee, "employee", "", "Employee being graded")
	flags.IntVar(&f.chats, "chats", 0, "Override the preset chat slot count")
	flags.IntVar(&f.calls, "calls", 0, "Override the preset call slot count")
	flags.BoolVar(&f.seed, "seed-criteria", false, "Also create the preset's criteria for the team")
	_ = cmd.MarkFlagRequired("team")

	return cmd
}

func runCreate(ctx context.Context, a *app, f *createFlags) error {
	p, err := preset.LoadBuiltin(f.preset)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}
	if f.chats >= 0 {
		p.ChatCount = f.chats
	}
	if f.calls >= 0 {
		p.CallCount = f.calls
	}
	if err := p.Validate(); err != nil {
		return exitError(exitValidation, "%v", err)
	}

	st, err := a.openStore(ctx, a.cfg.Store, a.log)
	if err != nil {
		return exitError(exitGateway, "%v", err)
	}
	defer st.Close()

	if f.seed {
		n, err := seedCriteria(ctx, st, f.teamID, p)
		if err != nil {
			return exitError(exitGateway, "seed criteria: %v", err)
		}
		a.log.Debug("criteria seeded", "count", n, "preset", p.Name)
	}

	q, err := st.CreateQualityMap(ctx, f.teamID, f.employee, p.ChatCount, p.CallCount)
	if err != nil {
		return exitError(exitGateway, "%v", err)
	}
	fmt.Fprintf(a.stdout, "Created quality map %d (%d chats, %d calls)\n", q.ID, q.ChatCount, q.CallCount)
	return nil
}

func seedCriteria(ctx context.Context, st *store.Store, teamID int64, p *preset.Preset) (int, error) {
	categories := map[string]int64{}
	for _, name := range p.Categories() {
		c, err := st.CreateCategory(ctx, name)
		if err != nil {
			return 0, err
		}
		categories[name] = c.ID
	}
	for i, pc := range p.Criteria {
		c := scorecard.Criterion{
			Name:        pc.Name,
			Description: pc.Description,
			IsActive:    true,
			TeamID:      &teamID,
		}
		if id, ok := categories[pc.Category]; ok {
			c.CategoryID = &id
		}
		if _, err := st.CreateCriterion(ctx, c); err != nil {
			return i, err
		}
	}
	return len(p.Criteria), nil
}
