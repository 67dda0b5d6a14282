package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	GroupID: "agents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, _ := cmd.Flags().GetBool("ws")
		logFile, _ := cmd.Flags().GetString("log-file")

		// The alt screen owns the terminal, so logs go to a file or nowhere.
		handler := slog.DiscardHandler
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
			if err != nil {
				return err
			}
			defer f.Close()
			var lvl slog.Level
			_ = lvl.UnmarshalText([]byte(logLevel))
			handler = slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})
		}
		prev := slog.Default()
		slog.SetDefault(slog.New(handler))
		defer slog.SetDefault(prev)

		return dashboard.Run(cmd.Context(), dashboard.Options{
			Client:       swarmClient,
			UserID:       cfg.UserID,
			PollInterval: cfg.PollInterval,
			Endpoints:    endpoints(),
			Publisher:    publisher,
			Subscribe:    ws,
		})
	},
}

func init() {
	dashboardCmd.Flags().Bool("ws", false, "apply status frames from /ws/{user} to the roster")
	dashboardCmd.Flags().String("log-file", "", "write logs to this file while the dashboard runs")
}
