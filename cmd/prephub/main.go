// Package main provides the entry point for the CRNA Prep Hub API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prephub",
	Short: "CRNA Prep Hub API Server",
	Long:  "CRNA Prep Hub serves the applicant portal API: AI mock interviews, the schools directory, saved schools and subscription upgrades.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
