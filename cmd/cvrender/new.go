package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Write an empty snapshot to start from",
	RunE:  runNew,
}

var newOutput string

func init() {
	newCmd.Flags().StringVarP(&newOutput, "out", "o", "", "Path to output snapshot JSON (required)")
	if err := newCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, _ []string) error {
	blob, err := cv.New().Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(newOutput, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", newOutput)
	return nil
}
