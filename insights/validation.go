package insights

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxRules         = 200
	maxIDLength      = 64
	maxInsightLength = 400
)

var ruleIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var validTopics = map[string]bool{
	"digit": true,
	"line":  true,
	"blend": true,
	"moon":  true,
}

// ValidateRuleSet checks a whole rule set before it is compiled
func ValidateRuleSet(rules []*Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("rule set cannot be empty, must contain at least one rule")
	}
	if len(rules) > maxRules {
		return fmt.Errorf("rule set contains %d rules, maximum allowed is %d", len(rules), maxRules)
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r == nil {
			return fmt.Errorf("rule %d is empty", i)
		}
		if err := validateRule(r); err != nil {
			return fmt.Errorf("invalid rule %q: %w", r.ID, err)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// validateRule checks the fields of a single rule; it does not compile the
// expression.
func validateRule(r *Rule) error {
	if err := validateRuleID(r.ID); err != nil {
		return err
	}
	if !validTopics[r.Topic] {
		return fmt.Errorf("topic %q is not one of digit, line, blend, moon", r.Topic)
	}
	if strings.TrimSpace(r.Expression) == "" {
		return fmt.Errorf("expression cannot be empty")
	}
	insight := strings.TrimSpace(r.Insight)
	if insight == "" {
		return fmt.Errorf("insight cannot be empty")
	}
	if len(insight) > maxInsightLength {
		return fmt.Errorf("insight length %d exceeds maximum of %d characters", len(insight), maxInsightLength)
	}
	return nil
}

func validateRuleID(id string) error {
	if id == "" {
		return fmt.Errorf("rule id cannot be empty")
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("rule id length %d exceeds maximum of %d characters", len(id), maxIDLength)
	}
	if !ruleIDPattern.MatchString(id) {
		return fmt.Errorf("rule id must match pattern %s", ruleIDPattern)
	}
	return nil
}
