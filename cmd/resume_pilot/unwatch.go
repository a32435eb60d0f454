package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unwatchCmd = &cobra.Command{
	Use:   "unwatch",
	Short: "Stop monitoring a spreadsheet",
	Long:  "Turn off monitoring for a spreadsheet. Its config and job history are kept, so 'watch' can resume it later.",
	RunE:  runUnwatch,
}

var unwatchFileID string

func init() {
	unwatchCmd.Flags().StringVarP(&unwatchFileID, "file-id", "f", "", "Drive file ID of the spreadsheet (required)")
	unwatchCmd.MarkFlagRequired("file-id")

	rootCmd.AddCommand(unwatchCmd)
}

func runUnwatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.monitor.StopMonitoring(ctx, unwatchFileID); err != nil {
		return err
	}

	fmt.Printf("Stopped monitoring %s\n", unwatchFileID)
	return nil
}
