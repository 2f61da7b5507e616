package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/delivery"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a snapshot to PDF",
	Long:  "Validates the snapshot, renders it and writes the PDF. Without --out the file is named after the CV owner and written next to the input.",
	RunE:  runRender,
}

var (
	renderInput  string
	renderOutput string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to snapshot JSON (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output PDF")
	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	rootCmd.AddCommand(renderCmd)
}

func loadSnapshot(path string) (cv.Document, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return cv.Document{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return cv.Parse(blob)
}

func runRender(cmd *cobra.Command, _ []string) error {
	doc, err := loadSnapshot(renderInput)
	if err != nil {
		return err
	}
	out, err := delivery.NewService(nil, nil).Generate(doc)
	if err != nil {
		return err
	}
	dest := renderOutput
	if dest == "" {
		dest = filepath.Join(filepath.Dir(renderInput), out.Filename)
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, out.PDF, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages)\n", dest, out.Pages)
	return nil
}
