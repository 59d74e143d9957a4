package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spacegame/internal/config"
	"spacegame/internal/logging"
)

type app struct {
	configPath string
	backend    string
	logLevel   string
	format     string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "spacegame",
		Short:         "Query SpaceGame scores and profiles from local or stored documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to config file (default ~/.spacegame/config.toml)")
	pf.StringVar(&a.backend, "backend", "", "record backend: local or bolt (overrides config)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	pf.StringVar(&a.format, "format", "auto", "output format: auto, table or json")

	root.AddCommand(
		newLeaderboardCmd(a),
		newCountCmd(a),
		newImportCmd(a),
	)
	return root
}

// setup loads config, applies flag overrides and initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Data.Backend = a.backend
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch a.format {
	case "auto", "table", "json":
	default:
		return fmt.Errorf("unknown --format %q", a.format)
	}
	cfg.Data.BoltPath = config.ExpandHome(cfg.Data.BoltPath)

	logging.Init(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "spacegame: %v\n", err)
		os.Exit(1)
	}
}
