package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/foreteller/foreteller/normalize"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Clean model output read from stdin into HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), normalize.Clean(string(in)))
			return nil
		},
	}
}
