package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var jobUniqueID string

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Show a tracked job application and its generation history",
	RunE:  runJob,
}

func init() {
	jobCmd.Flags().StringVarP(&jobUniqueID, "unique-id", "u", "", "unique id of the job (the sheet's unique_id cell)")
	jobCmd.MarkFlagRequired("unique-id")
	rootCmd.AddCommand(jobCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	job, err := a.store.JobByUniqueID(ctx, jobUniqueID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", jobUniqueID, err)
	}
	if job == nil {
		return fmt.Errorf("no job with unique id %s", jobUniqueID)
	}

	fmt.Printf("Job %s\n", job.UniqueID)
	fmt.Printf("  Company:  %s\n", job.CompanyName)
	fmt.Printf("  URL:      %s\n", job.JobURL)
	fmt.Printf("  Status:   %s\n", job.Status)
	fmt.Printf("  Sheet:    %s\n", job.ExcelFileID)
	fmt.Printf("  Resume generated: %t, cover letter generated: %t\n",
		job.ResumeGenerated, job.CoverLetterGenerated)

	if job.UserResumeID != nil {
		base, err := a.store.ResumeByID(ctx, *job.UserResumeID)
		if err != nil {
			return fmt.Errorf("failed to load base resume: %w", err)
		}
		if base != nil {
			fmt.Printf("  Base resume: %s (%s)\n", base.FileName, base.UserName)
		}
	}

	count, err := a.store.CountGeneratedResumes(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to count generated resumes: %w", err)
	}
	fmt.Printf("  Generated resume versions: %d\n", count)

	latest, err := a.store.LatestGeneratedResume(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to load latest generated resume: %w", err)
	}
	if latest != nil && latest.GoogleDocURL != "" {
		fmt.Printf("  Document: %s\n", latest.GoogleDocURL)
	}
	return nil
}
