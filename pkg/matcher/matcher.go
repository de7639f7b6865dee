// Package matcher maps free-text commands to skill names using declarative
// pattern rules with confidence scoring. Matching is a pure function of the
// rule set and the command string; a Matcher is read-only after construction
// and safe for concurrent use.
package matcher

import (
	"sort"
	"strings"
)

// Rule is a single declarative pattern: phrases and keywords that trigger a
// skill with derived parameters. Rules are configuration data, not code.
type Rule struct {
	// Name labels the rule in config files and logs.
	Name string `json:"name,omitempty"`
	// Phrases fire on exact containment in the normalized command.
	Phrases []string `json:"phrases,omitempty"`
	// Keywords fire on word overlap with the command.
	Keywords []string `json:"keywords,omitempty"`
	// Skill is the target skill name in the registry.
	Skill string `json:"skill"`
	// Params is the default parameter mapping supplied on match.
	Params map[string]any `json:"params,omitempty"`
	// Confidence in [0,1] is the rule's firing threshold.
	Confidence float64 `json:"confidence"`
	// Category labels the rule (e.g. "modeling", "shading").
	Category string `json:"category,omitempty"`
	// Priority orders evaluation: higher first, declaration order within ties.
	Priority int `json:"priority,omitempty"`
}

// MatchResult is the outcome of matching one command. Produced fresh per call
// and owned by the caller.
type MatchResult struct {
	Matched    bool           `json:"matched"`
	Skill      string         `json:"skill,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	Confidence float64        `json:"confidence"`
	// Rule is the name of the rule that fired, when it has one.
	Rule string `json:"rule,omitempty"`
	// Category is the firing rule's category label.
	Category string `json:"category,omitempty"`
}

// Config holds matcher configuration.
type Config struct {
	// MinConfidence is a global score floor applied on top of each rule's own
	// threshold. Zero disables it.
	MinConfidence float64
}

// Matcher evaluates an ordered rule set against incoming commands.
type Matcher struct {
	rules []scoredRule
	cfg   Config
}

type scoredRule struct {
	rule     Rule
	phrases  []string // normalized
	keywords []string // normalized
}

// NewMatcher builds a Matcher from a rule set. Rules are sorted by priority
// (descending, stable) once; phrase and keyword text is normalized up front.
func NewMatcher(rules []Rule, cfg Config) *Matcher {
	sorted := make([]scoredRule, len(rules))
	for i, r := range rules {
		sr := scoredRule{rule: r}
		for _, p := range r.Phrases {
			if n := normalize(p); n != "" {
				sr.phrases = append(sr.phrases, n)
			}
		}
		for _, k := range r.Keywords {
			if n := normalize(k); n != "" {
				sr.keywords = append(sr.keywords, n)
			}
		}
		sorted[i] = sr
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].rule.Priority > sorted[j].rule.Priority
	})
	return &Matcher{rules: sorted, cfg: cfg}
}

// Match maps a command to the first rule whose score meets its threshold.
// Ties are broken by evaluation order, not score magnitude, so matching stays
// deterministic and explainable. The returned confidence is the computed
// score, letting callers distinguish a marginal match from a strong one.
func (m *Matcher) Match(command string) MatchResult {
	norm := normalize(command)
	if norm == "" {
		return MatchResult{Matched: false, Confidence: 0}
	}
	words := wordSet(norm)

	for i := range m.rules {
		sr := &m.rules[i]
		score := sr.score(norm, words)
		if score <= 0 {
			continue
		}
		if score < sr.rule.Confidence || score < m.cfg.MinConfidence {
			continue
		}
		params := make(map[string]any, len(sr.rule.Params))
		for k, v := range sr.rule.Params {
			params[k] = v
		}
		return MatchResult{
			Matched:    true,
			Skill:      sr.rule.Skill,
			Params:     params,
			Confidence: score,
			Rule:       sr.rule.Name,
			Category:   sr.rule.Category,
		}
	}

	return MatchResult{Matched: false, Confidence: 0}
}

// Rules returns the rule set in evaluation order.
func (m *Matcher) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	for i := range m.rules {
		out[i] = m.rules[i].rule
	}
	return out
}

// score computes the rule's match score for a normalized command.
//
// Exact-phrase containment contributes 1.0. A keyword hit contributes the
// rule's declared confidence plus the remaining headroom scaled by the
// overlap ratio (matched keywords / total keywords), so a partial keyword
// match still clears the rule's own threshold while a fuller overlap scores
// strictly higher. Zero hits contribute nothing.
func (sr *scoredRule) score(norm string, words map[string]struct{}) float64 {
	score := 0.0
	for _, phrase := range sr.phrases {
		if strings.Contains(norm, phrase) {
			score = 1.0
			break
		}
	}

	if len(sr.keywords) > 0 {
		matched := 0
		for _, kw := range sr.keywords {
			if keywordPresent(kw, norm, words) {
				matched++
			}
		}
		if matched > 0 {
			base := sr.rule.Confidence
			overlap := float64(matched) / float64(len(sr.keywords))
			kwScore := base + (1-base)*overlap
			if kwScore > score {
				score = kwScore
			}
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

// keywordPresent checks a single keyword: word-set membership for single
// words, substring containment for multi-word keywords.
func keywordPresent(kw, norm string, words map[string]struct{}) bool {
	if strings.ContainsRune(kw, ' ') {
		return strings.Contains(norm, kw)
	}
	_, ok := words[kw]
	return ok
}

// normalize case-folds, trims, and collapses whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func wordSet(norm string) map[string]struct{} {
	fields := strings.Fields(norm)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.Trim(f, ".,!?;:\"'()")] = struct{}{}
	}
	return set
}
