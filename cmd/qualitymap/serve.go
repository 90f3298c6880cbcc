package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/dshills/qualitymap/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quality-map REST API from the configured gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	if a.cfg.Log.Mode == "prod" || a.cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gw, closeGW, err := a.openGateway(ctx, a.cfg, a.log)
	if err != nil {
		return exitError(exitGateway, "gateway: %v", err)
	}
	defer closeGW()

	a.log.Info("serving quality maps", "gateway", gw.Name(), "addr", a.cfg.Server.Addr)
	if err := server.Run(ctx, a.cfg.Server.Addr, server.NewRouter(gw, a.log), a.log); err != nil {
		return exitError(exitGeneric, "%v", err)
	}
	return nil
}
