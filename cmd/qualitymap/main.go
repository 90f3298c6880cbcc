package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/qualitymap/internal/config"
	"github.com/dshills/qualitymap/internal/gateway"
	"github.com/dshills/qualitymap/internal/notify"
	"github.com/dshills/qualitymap/internal/platform/logger"
	"github.com/dshills/qualitymap/internal/store"
)

var version = "0.1.0"

// Exit codes.
const (
	exitGeneric    = 1
	exitThreshold  = 2
	exitInput      = 3
	exitGateway    = 4
	exitValidation = 5
)

// app carries state shared by all subcommands. The open* hooks are
// replaced in tests.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger

	stdout io.Writer
	stderr io.Writer
	notify notify.Notifier

	openGateway func(ctx context.Context, cfg *config.Config, log *logger.Logger) (gateway.Gateway, func() error, error)
	openStore   func(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*store.Store, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		v:           config.New(),
		log:         logger.Nop(),
		stdout:      stdout,
		stderr:      stderr,
		notify:      notify.NewConsole(stderr),
		openGateway: gateway.Resolve,
		openStore:   gateway.OpenStore,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "qualitymap",
		Short:         "Grade support chats and calls against quality criteria",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default: .qualitymaprc.yaml in the working directory)")
	pf.String("format", "console", "Output format: console, markdown, json or xlsx")
	pf.Bool("verbose", false, "Enable debug logging")
	pf.String("gateway", "local", "Data source: local or http")
	pf.String("base-url", "", "Backend base URL for the http gateway")
	pf.String("driver", "sqlite", "Local store driver: sqlite or postgres")
	pf.String("dsn", "qualitymap.db", "Local store DSN")

	bind := map[string]string{
		"format":           "format",
		"log.verbose":      "verbose",
		"gateway.mode":     "gateway",
		"gateway.base_url": "base-url",
		"store.driver":     "driver",
		"store.dsn":        "dsn",
	}
	for key, flag := range bind {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newCheckCmd(a),
		newShowCmd(a),
		newDeductCmd(a),
		newRenameCmd(a),
		newCreateCmd(a),
		newImportCmd(a),
		newPresetsCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return exitError(exitInput, "%v", err)
	}
	a.cfg = cfg
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Verbose)
	if err != nil {
		return exitError(exitGeneric, "failed to init logger: %v", err)
	}
	a.log = log
	return nil
}

func main() {
	_ = godotenv.Load()

	a := newApp(os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitGeneric)
	}
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
