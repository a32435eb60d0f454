package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registered spreadsheets and the active resume",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	resume, err := a.store.ActiveResume(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active resume: %w", err)
	}
	if resume == nil {
		fmt.Println("Active resume: none (run 'upload-resume' first)")
	} else {
		fmt.Printf("Active resume: %s (%s, uploaded %s)\n",
			resume.FileName, resume.UserName, resume.UploadedAt.Format("2006-01-02"))
	}

	configs, err := a.store.AllConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list spreadsheet configs: %w", err)
	}
	if len(configs) == 0 {
		fmt.Println("No spreadsheets registered.")
		return nil
	}

	fmt.Printf("\nSpreadsheets (%d):\n", len(configs))
	for _, cfg := range configs {
		state := "paused"
		if cfg.IsMonitoring {
			state = "monitoring"
		}
		checked := "never"
		if cfg.LastChecked != nil {
			checked = cfg.LastChecked.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  %-12s %q (%s), last checked %s\n", state, cfg.ExcelFileName, cfg.ExcelFileID, checked)
	}
	return nil
}
