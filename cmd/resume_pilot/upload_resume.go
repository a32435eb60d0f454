package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var uploadResumeCmd = &cobra.Command{
	Use:   "upload-resume",
	Short: "Upload a resume and make it the active one",
	Long:  "Store a plain-text resume as the active resume. Any previously active resume is deactivated; all subsequent generation tailors this one.",
	RunE:  runUploadResume,
}

var (
	uploadResumeFile string
	uploadResumeUser string
)

func init() {
	uploadResumeCmd.Flags().StringVarP(&uploadResumeFile, "file", "f", "", "Path to the resume text file (required)")
	uploadResumeCmd.Flags().StringVarP(&uploadResumeUser, "name", "n", "", "Candidate name (required)")

	uploadResumeCmd.MarkFlagRequired("file")
	uploadResumeCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(uploadResumeCmd)
}

func runUploadResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(uploadResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return fmt.Errorf("resume file %s is empty", uploadResumeFile)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	resume, err := a.store.CreateResume(ctx, uploadResumeUser, filepath.Base(uploadResumeFile), content)
	if err != nil {
		return fmt.Errorf("failed to store resume: %w", err)
	}

	fmt.Printf("Uploaded %s as the active resume for %s (id %s)\n",
		resume.FileName, resume.UserName, resume.ID)
	return nil
}
