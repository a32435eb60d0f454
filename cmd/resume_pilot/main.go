// Package main provides the entry point for the resume-pilot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_pilot",
	Short: "Automated resume and cover letter generation from job spreadsheets",
	Long:  "resume_pilot watches Drive-hosted job spreadsheets, scrapes postings, generates tailored resumes and cover letters, and writes the results back into the sheet.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
