package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foreteller/foreteller/facts"
	"github.com/foreteller/foreteller/insights"
)

func newInsightsCmd() *cobra.Command {
	var date, rulesFile string
	var all bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Evaluate the numerology rules against a birth date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := loadEngine(rulesFile)
			if err != nil {
				return err
			}

			results, err := engine.EvaluateAll(facts.Derive(date, ""))
			if err != nil {
				return fmt.Errorf("evaluate rules: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				switch {
				case r.Error != nil:
					fmt.Fprintf(out, "! %s: %v\n", r.RuleID, r.Error)
				case r.Matched:
					fmt.Fprintf(out, "+ %s [%s] %s\n", r.RuleID, r.Topic, r.Insight)
				case all:
					fmt.Fprintf(out, "- %s [%s]\n", r.RuleID, r.Topic)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Birth date, YYYY-MM-DD (required)")
	f.StringVar(&rulesFile, "rules", "", "YAML rule set to use instead of the built-in one")
	f.BoolVar(&all, "all", false, "Also list rules that did not match")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func loadEngine(rulesFile string) (*insights.Engine, error) {
	if rulesFile == "" {
		return insights.NewDefaultEngine()
	}

	data, err := os.ReadFile(rulesFile)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	rules, err := insights.LoadRuleSet(data)
	if err != nil {
		return nil, err
	}
	store, err := insights.NewInMemoryRuleStoreFrom(rules)
	if err != nil {
		return nil, err
	}
	return insights.NewEngine(store)
}
