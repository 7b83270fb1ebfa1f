package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "findings-ledger",
		Short:         "Normalize, deduplicate, and record security scanner findings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newIngestCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "findings-ledger error:", err)
		os.Exit(2)
	}
}
