package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/comigor/memoria/internal/logger"
	"github.com/comigor/memoria/internal/mcpserver"
	"github.com/comigor/memoria/pkg/tools"
)

func mcpCmd(a *app) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve chat, upload and history as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr != "" {
				go serveMetrics(a, metricsAddr)
			}

			manager := tools.NewToolManager()
			tools.Register(manager, a.dash)
			logger.L.Info("starting MCP server", "tools", len(manager.List()))
			return mcpserver.ServeStdio(mcpserver.New("memoria", version, manager))
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func serveMetrics(a *app, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.L.Info("serving metrics", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L.Error("metrics server error", "error", err)
	}
}
