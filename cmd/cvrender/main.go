// Command cvrender renders CV snapshots to PDF offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "cvrender",
	Short:         "Render CV snapshots to PDF",
	Long:          "cvrender reads the JSON snapshots exported by the CV builder and lays them out as A4 PDFs, the same way the server does.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
