package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordan/resume-pilot/internal/monitor"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Register a spreadsheet for monitoring",
	Long:  "Register a Drive-hosted spreadsheet so the monitor loop processes it. Re-running updates the stored policy for a spreadsheet that is already registered.",
	RunE:  runWatch,
}

var (
	watchFileID          string
	watchOutputFolderID  string
	watchNewResume       bool
	watchRecommendations bool
	watchCoverLetters    bool
	watchAutoCleanup     bool
)

func init() {
	watchCmd.Flags().StringVarP(&watchFileID, "file-id", "f", "", "Drive file ID of the spreadsheet (required)")
	watchCmd.Flags().StringVarP(&watchOutputFolderID, "folder-id", "o", "", "Drive folder ID for generated documents")
	watchCmd.Flags().BoolVar(&watchNewResume, "new-resume", true, "Allow tailored resume generation")
	watchCmd.Flags().BoolVar(&watchRecommendations, "recommendations", true, "Generate tailoring recommendations when keeping the uploaded resume")
	watchCmd.Flags().BoolVar(&watchCoverLetters, "cover-letters", false, "Always generate cover letters regardless of per-row flags")
	watchCmd.Flags().BoolVar(&watchAutoCleanup, "auto-cleanup", false, "Archive jobs whose rows disappear from the sheet")

	watchCmd.MarkFlagRequired("file-id")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	cfg, err := a.monitor.StartMonitoring(ctx, watchFileID, monitor.WatchOptions{
		OutputFolderID:            watchOutputFolderID,
		GenerateNewResume:         watchNewResume,
		GenerateRecommendations:   watchRecommendations,
		AlwaysGenerateCoverLetter: watchCoverLetters,
		AutoCleanupOldJobs:        watchAutoCleanup,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Now monitoring %q (%s)\n", cfg.ExcelFileName, cfg.ExcelFileID)
	return nil
}
