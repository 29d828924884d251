// Package insights turns a psychomatrix and its sky facts into short
// interpretive hints using CEL rules.
package insights

import (
	"github.com/foreteller/foreteller/facts"
)

// Rule is a single interpretation rule.
// Expression is a CEL boolean over the variables declared in NewEnv.
type Rule struct {
	ID         string
	Topic      string
	Expression string
	Insight    string
	Active     bool
}

// EvaluationResult is the outcome of evaluating one rule
type EvaluationResult struct {
	RuleID  string
	Topic   string
	Insight string
	Matched bool
	Error   error
}

// Activation converts derived facts into the CEL variables rules are written
// against: square (digit -> count), meta (working numbers by name), zodiac,
// animal and phase.
func Activation(d facts.Derived) map[string]any {
	square := make(map[int64]int64, 9)
	for digit := 1; digit <= 9; digit++ {
		square[int64(digit)] = int64(d.Pythagoras.Square.Count(digit))
	}

	m := d.Pythagoras.Meta
	return map[string]any{
		"square": square,
		"meta": map[string]int64{
			"firstNum":  int64(m.FirstNum),
			"secondNum": int64(m.SecondNum),
			"thirdNum":  int64(m.ThirdNum),
			"fourthNum": int64(m.FourthNum),
		},
		"zodiac": d.Zodiac,
		"animal": d.ChineseZodiac,
		"phase":  d.Moon.Name,
	}
}
