package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the monitoring loop over all watched spreadsheets",
	Long:  "Poll every spreadsheet registered with 'watch' on a fixed interval, processing new and changed rows each cycle. Runs until interrupted.",
	RunE:  runMonitor,
}

var monitorInterval int

func init() {
	monitorCmd.Flags().IntVarP(&monitorInterval, "interval", "i", 0, "Seconds between cycles (overrides MONITOR_INTERVAL_SECONDS)")

	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	if monitorInterval > 0 {
		a.monitor.Interval = time.Duration(monitorInterval) * time.Second
	}

	if err := a.monitor.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
