package main

import (
	"github.com/spf13/cobra"

	"github.com/operator-framework/usage-metering/pkg/server"
)

var serveCfg server.Config

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "reconciles usage on a cron schedule and serves metrics and health checks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		h, err := newHandler(logger, driverRunner)
		if err != nil {
			return err
		}

		ctx := setupSignals(logger)
		srv := server.New(logger, serveCfg, h)
		if err := srv.Run(ctx); err != nil {
			return err
		}
		logger.Infof("usage-metering has stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveCfg.ListenAddr, "listen", ":8080", "the address the HTTP server listens on")
	serveCmd.Flags().StringVar(&serveCfg.Schedule, "schedule", server.DefaultSchedule, "cron schedule, with a leading seconds field, of the reconciliation")
}
