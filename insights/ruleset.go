package insights

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

type ruleEntry struct {
	ID         string `yaml:"id"`
	Topic      string `yaml:"topic"`
	Expression string `yaml:"expression"`
	Insight    string `yaml:"insight"`
	Active     *bool  `yaml:"active"`
}

// LoadRuleSet parses and validates a YAML rule set. Rules without an
// explicit active flag are active.
func LoadRuleSet(data []byte) ([]*Rule, error) {
	var file struct {
		Rules []ruleEntry `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rule set: %w", err)
	}

	rules := make([]*Rule, 0, len(file.Rules))
	for _, e := range file.Rules {
		rules = append(rules, &Rule{
			ID:         e.ID,
			Topic:      e.Topic,
			Expression: e.Expression,
			Insight:    e.Insight,
			Active:     e.Active == nil || *e.Active,
		})
	}

	if err := ValidateRuleSet(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// DefaultRuleSet returns the embedded interpretation rules.
func DefaultRuleSet() ([]*Rule, error) {
	return LoadRuleSet(defaultRulesYAML)
}
