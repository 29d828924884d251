package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foreteller/foreteller/facts"
)

type factsOutput struct {
	facts.Derived
	Degraded bool `json:"degraded"`
}

func newFactsCmd() *cobra.Command {
	var date, clock string

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Print zodiac, Chinese zodiac, psychomatrix and moon phase as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := facts.Derive(date, clock)
			out, err := json.MarshalIndent(factsOutput{Derived: d, Degraded: d.Degraded()}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode facts: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Birth date, YYYY-MM-DD (required)")
	f.StringVar(&clock, "time", "", "Birth time, HH:MM")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
