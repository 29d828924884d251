package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foreteller/foreteller/facts"
	"github.com/foreteller/foreteller/insights"
	"github.com/foreteller/foreteller/prompt"
)

type promptOptions struct {
	date, clock, place, gender string
	partnerDate, partnerGender string
	language, mode             string
}

func newPromptCmd() *cobra.Command {
	promptFlags := &promptOptions{}
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the analysis prompt, or the compatibility prompt when --partner-date is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrompt(cmd, promptFlags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&promptFlags.date, "date", "", "Birth date, YYYY-MM-DD (required)")
	f.StringVar(&promptFlags.clock, "time", "", "Birth time, HH:MM")
	f.StringVar(&promptFlags.place, "place", "", "Birth place")
	f.StringVar(&promptFlags.gender, "gender", "male", "male or female")
	f.StringVar(&promptFlags.partnerDate, "partner-date", "", "Second person's birth date")
	f.StringVar(&promptFlags.partnerGender, "partner-gender", "female", "Second person's gender")
	f.StringVar(&promptFlags.language, "language", "uk", "Report language code")
	f.StringVar(&promptFlags.mode, "mode", "detailed", "detailed or concise")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func runPrompt(cmd *cobra.Command, pf *promptOptions) error {
	mode, err := prompt.ParseMode(pf.mode)
	if err != nil {
		return err
	}
	builder, err := prompt.NewDefaultBuilder()
	if err != nil {
		return err
	}
	locale := builder.Catalog().Resolve(pf.language)

	self := prompt.Subject{Date: pf.date, Time: pf.clock, Place: pf.place, Gender: gender(pf.gender)}
	selfFacts := facts.Derive(pf.date, pf.clock)

	var text string
	if pf.partnerDate != "" {
		text, err = builder.BuildCompatibility(prompt.CompatibilityRequest{
			Partners: [2]prompt.Partner{
				{Subject: self, Facts: selfFacts},
				{
					Subject: prompt.Subject{Date: pf.partnerDate, Gender: gender(pf.partnerGender)},
					Facts:   facts.Derive(pf.partnerDate, ""),
				},
			},
			Locale: locale,
			Mode:   mode,
		})
	} else {
		var hints []string
		if hints, err = defaultHints(selfFacts); err != nil {
			return err
		}
		text, err = builder.BuildAnalysis(prompt.AnalysisRequest{
			Subject: self,
			Facts:   selfFacts,
			Hints:   hints,
			Locale:  locale,
			Mode:    mode,
		})
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func defaultHints(d facts.Derived) ([]string, error) {
	engine, err := insights.NewDefaultEngine()
	if err != nil {
		return nil, err
	}
	hints, err := engine.Hints(d)
	if err != nil {
		return nil, fmt.Errorf("evaluate insights: %w", err)
	}
	return hints, nil
}

func gender(g string) string {
	if strings.EqualFold(strings.TrimSpace(g), "female") {
		return "female"
	}
	return "male"
}
