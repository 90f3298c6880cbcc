package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/preset"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in quality map presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := preset.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				p, err := preset.LoadBuiltin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%-10s %2d chats %2d calls %2d criteria  %s\n",
					p.Name, p.ChatCount, p.CallCount, len(p.Criteria), p.Description)
			}
			return nil
		},
	}
}
