// Mailtriage classifies spa customer emails over HTTP.
//
// Usage:
//
//	# Start the server (reads .env and ~/.config/mailtriage/config.yaml)
//	mailtriage serve
//
//	# Configure via environment
//	SERVER_HTTP_PORT=9000 GOOGLE_API_KEY=... mailtriage serve
//
//	mailtriage version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	configPath string
	envFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mailtriage",
	Short: "Spa email classification service",
	Long: `mailtriage classifies inbound customer emails into appointment requests,
pricing inquiries, complaints and feedback, runs the matching action and
reports an age-adjusted importance.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and block until SIGINT or SIGTERM.

Examples:
  # Defaults: 0.0.0.0:8000, Gemini oracle, SMTP alerts
  mailtriage serve

  # Explicit config file
  mailtriage serve --config ~/.config/mailtriage/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd)
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.config/mailtriage/config.yaml)")
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func printVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mailtriage by Fyrsmith Labs\n")
	fmt.Fprintf(out, "Version:    %s\n", version)
	fmt.Fprintf(out, "Commit:     %s\n", gitCommit)
	fmt.Fprintf(out, "Build Date: %s\n", buildDate)
}
