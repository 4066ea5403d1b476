package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/config"
	"github.com/comigor/memoria/internal/credential"
	"github.com/comigor/memoria/internal/dashboard"
	"github.com/comigor/memoria/internal/logger"
)

var version = "dev"

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	store    credential.Store
	registry *prometheus.Registry
	dash     *dashboard.Dashboard
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var token, logLevel string

	root := &cobra.Command{
		Use:           "memoria",
		Short:         "Chat with your documents from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			logger.SetLevel(cfg.Log.Level)

			if token != "" {
				a.store = credential.NewMemoryStore(token)
			} else {
				a.store = credential.NewSQLiteStore(cfg.Credentials.Path)
			}
			a.cfg = cfg
			a.registry = prometheus.NewRegistry()
			a.dash = dashboard.New(*cfg, a.store, api.WithMetrics(api.NewMetrics(a.registry)))

			if tok, ok := a.store.Get(); ok {
				logger.L.Debug("using stored credential", "subject", tok.Subject())
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s, ok := a.store.(*credential.SQLiteStore); ok {
				return s.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token to use instead of the stored one")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		chatCmd(a),
		uploadCmd(a),
		historyCmd(a),
		shellCmd(a),
		mcpCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
