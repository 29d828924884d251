package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "foreteller",
		Short:         "Offline tools for birth-chart facts and report prompts",
		Long:          "foreteller computes the deterministic facts of a birth date,\nrenders the prompts sent to the completion model and cleans model output.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	root.AddCommand(newFactsCmd())
	root.AddCommand(newInsightsCmd())
	root.AddCommand(newPromptCmd())
	root.AddCommand(newNormalizeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
