package main

import (
	"github.com/spf13/cobra"

	"confposter/internal/server"
	"confposter/pkg/logger"
)

// serveCmd starts the HTTP invocation surface.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP trigger and log endpoints",
	Long: `Start the HTTP server exposing POST /api/run/{tenant}/{post|count|test}
for an external scheduler or manual trigger, and GET /api/logs for the
most recent log entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		schedulers := buildSchedulers(cfg)
		srv := server.New(schedulers, logger.Buffer(), logger.GetLogger())
		return srv.ListenAndServe(cfg.Server.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
