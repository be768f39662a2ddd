// Package main implements the triagectl CLI for manual operations against a mailtriage server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the mailtriage HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "triagectl",
	Short: "CLI for mailtriage HTTP server operations",
	Long: `triagectl is a command-line interface for interacting with the mailtriage HTTP server.
It submits emails for classification, downloads the testimonial log and checks server health.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "mailtriage server URL")
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(testimonialsCmd)
	rootCmd.AddCommand(healthCmd)
}
