// Package main provides the entry point for the JobAlign HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobalign",
	Short: "JobAlign HTTP API Server",
	Long:  "JobAlign parses resumes, analyzes job descriptions and scores how well they match, with interview prep, job recommendations and Stripe billing exposed over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
