// Package rules provides pattern-rule set loading for the dispatch matcher.
// Rule sets are declarative JSON data, validated and versioned independently
// of the matcher logic that evaluates them.
package rules

import "github.com/miktos/nexus-dispatch/pkg/matcher"

// RuleEntry is a single pattern rule in a rule-set file.
type RuleEntry struct {
	Name       string         `json:"name,omitempty"`
	Phrases    []string       `json:"phrases,omitempty"`
	Keywords   []string       `json:"keywords,omitempty"`
	Skill      string         `json:"skill"`
	Params     map[string]any `json:"params,omitempty"`
	Confidence float64        `json:"confidence"`
	Category   string         `json:"category,omitempty"`
	Priority   int            `json:"priority,omitempty"`
}

// RulesConfig is the root rule-set configuration.
type RulesConfig struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description,omitempty"`
	Rules       []RuleEntry `json:"rules"`
}

// ToMatcherRules converts the config entries into matcher rule records,
// preserving declaration order.
func (c *RulesConfig) ToMatcherRules() []matcher.Rule {
	out := make([]matcher.Rule, len(c.Rules))
	for i, e := range c.Rules {
		out[i] = matcher.Rule{
			Name:       e.Name,
			Phrases:    e.Phrases,
			Keywords:   e.Keywords,
			Skill:      e.Skill,
			Params:     e.Params,
			Confidence: e.Confidence,
			Category:   e.Category,
			Priority:   e.Priority,
		}
	}
	return out
}
