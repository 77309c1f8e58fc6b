package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API",
		Long: `Starts the HTTP API:
  GET  /health
  POST /api/v1/analyze            multipart "file" (+ "user"): JSON report
  POST /api/v1/report?format=pdf  multipart "file" (+ "user"): pdf or zip bundle
  GET  /metrics                   Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.ListenAddr = addr
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			stop, err := analysis.LoadStopwords(a.cfg.StopwordsFile)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return server.New(a.cfg, a.log, stop).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8501)")
	return cmd
}
