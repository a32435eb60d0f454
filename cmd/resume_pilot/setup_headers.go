package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setupHeadersCmd = &cobra.Command{
	Use:   "setup-headers",
	Short: "Write or repair the expected header row of a spreadsheet",
	Long:  "Ensure the spreadsheet's first row carries the full set of expected column headers, rebuilding the header row while preserving existing data.",
	RunE:  runSetupHeaders,
}

var setupHeadersFileID string

func init() {
	setupHeadersCmd.Flags().StringVarP(&setupHeadersFileID, "file-id", "f", "", "Drive file ID of the spreadsheet (required)")
	setupHeadersCmd.MarkFlagRequired("file-id")

	rootCmd.AddCommand(setupHeadersCmd)
}

func runSetupHeaders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sheets.EnsureHeaders(ctx, setupHeadersFileID); err != nil {
		return fmt.Errorf("failed to set up headers: %w", err)
	}

	fmt.Printf("Headers are in place for %s\n", setupHeadersFileID)
	return nil
}
