package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	classifyID      int64
	classifySubject string
	classifyDate    string
	classifyJSON    bool
	downloadOutput  string
)

// classifyCmd submits one email for classification
var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify an email read from a file or stdin",
	Long: `Send an email body to the mailtriage server and print its classification.

Examples:
  # Classify a file
  triagectl classify --id 42 --subject "Reclamo" mensaje.txt

  # Classify from stdin with an explicit received date
  echo "Quisiera una cita" | triagectl classify --id 7 --subject "Cita" --date 2025-06-01 -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

// testimonialsCmd groups testimonial operations
var testimonialsCmd = &cobra.Command{
	Use:   "testimonials",
	Short: "Testimonial log operations",
}

var testimonialsDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the testimonial log",
	Long: `Download the testimonial log to a file or stdout.

Examples:
  triagectl testimonials download -o testimonios.txt`,
	Args: cobra.NoArgs,
	RunE: runTestimonialsDownload,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check mailtriage server health",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	classifyCmd.Flags().Int64Var(&classifyID, "id", 0, "email id (required)")
	classifyCmd.Flags().StringVar(&classifySubject, "subject", "", "email subject")
	classifyCmd.Flags().StringVar(&classifyDate, "date", "", "received date YYYY-MM-DD (default today)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the raw JSON response")
	_ = classifyCmd.MarkFlagRequired("id")

	testimonialsDownloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "-", "output file, - for stdout")
	testimonialsCmd.AddCommand(testimonialsDownloadCmd)
}

// runClassify handles the classify command
func runClassify(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}
	if len(content) == 0 {
		return fmt.Errorf("no email text to classify")
	}

	date := classifyDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	client := newAPIClient(serverURL, 60*time.Second)
	resp, err := client.classify(cmd.Context(), ClassifyRequest{
		ID:        classifyID,
		Subject:   classifySubject,
		EmailText: string(content),
		Date:      date,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if classifyJSON {
		return writeJSON(out, resp)
	}
	fmt.Fprintf(out, "Email:         #%d\n", resp.ID)
	fmt.Fprintf(out, "Clasificación: %s\n", resp.Clasificacion)
	fmt.Fprintf(out, "Importancia:   %s\n", resp.Importancia)
	if resp.Mensaje != nil {
		fmt.Fprintf(out, "\n%s\n", *resp.Mensaje)
	}
	return nil
}

// runTestimonialsDownload handles the testimonials download command
func runTestimonialsDownload(cmd *cobra.Command, _ []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if downloadOutput != "-" {
		f, err := os.OpenFile(downloadOutput, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", downloadOutput, err)
		}
		defer f.Close()
		w = f
	}

	client := newAPIClient(serverURL, 30*time.Second)
	n, err := client.downloadTestimonials(cmd.Context(), w)
	if err != nil {
		return err
	}
	if downloadOutput != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "[triagectl] wrote %d bytes to %s\n", n, downloadOutput)
	}
	return nil
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, _ []string) error {
	client := newAPIClient(serverURL, 5*time.Second)
	resp, err := client.health(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server Status: %s\n", resp.Status)
	fmt.Fprintf(cmd.OutOrStdout(), "Service:       %s\n", resp.Service)
	return nil
}
