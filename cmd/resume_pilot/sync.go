package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordan/resume-pilot/internal/db"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass over a single spreadsheet",
	Long:  "Process one spreadsheet immediately and exit. Uses the stored watch config when the spreadsheet is registered; otherwise flags supply an ad-hoc policy.",
	RunE:  runSync,
}

var (
	syncFileID         string
	syncForce          bool
	syncOutputFolderID string
	syncNewResume      bool
	syncCoverLetters   bool
)

func init() {
	syncCmd.Flags().StringVarP(&syncFileID, "file-id", "f", "", "Drive file ID of the spreadsheet (required)")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Regenerate content even for rows already marked done")
	syncCmd.Flags().StringVar(&syncOutputFolderID, "folder-id", "", "Drive folder ID for generated documents (unregistered sheets only)")
	syncCmd.Flags().BoolVar(&syncNewResume, "new-resume", true, "Allow tailored resume generation (unregistered sheets only)")
	syncCmd.Flags().BoolVar(&syncCoverLetters, "cover-letters", false, "Always generate cover letters (unregistered sheets only)")

	syncCmd.MarkFlagRequired("file-id")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	cfg, err := a.store.ConfigByFileID(ctx, syncFileID)
	if err != nil {
		return fmt.Errorf("failed to look up spreadsheet config: %w", err)
	}
	if cfg == nil {
		cfg = &db.MonitorConfig{
			ExcelFileID:               syncFileID,
			OutputFolderID:            syncOutputFolderID,
			GenerateNewResume:         syncNewResume,
			GenerateRecommendations:   true,
			AlwaysGenerateCoverLetter: syncCoverLetters,
		}
	}

	res, err := a.engine.ProcessSheet(ctx, cfg, syncForce)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d, skipped %d, errors %d (of %d rows)\n",
		res.Processed, res.Skipped, res.Errors, res.Total)
	if res.Errors > 0 {
		return fmt.Errorf("%d rows failed", res.Errors)
	}
	return nil
}
