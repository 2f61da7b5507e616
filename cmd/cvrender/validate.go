package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a snapshot without rendering",
	RunE:  runValidate,
}

var validateInput string

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to snapshot JSON (required)")
	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	doc, err := loadSnapshot(validateInput)
	if err != nil {
		return err
	}
	if err := doc.ValidateForRender(); err != nil {
		var ve *cv.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("snapshot cannot be rendered: %w", err)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d experience, %d education entries\n", len(doc.Experience), len(doc.Education))
	return nil
}
