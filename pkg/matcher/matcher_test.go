package matcher

import (
	"math"
	"testing"
)

func testRules() []Rule {
	return []Rule{
		{
			Name:       "create-cube",
			Phrases:    []string{"create a cube", "add a cube"},
			Keywords:   []string{"cube", "box"},
			Skill:      "create_primitive",
			Params:     map[string]any{"primitive_type": "cube"},
			Confidence: 0.8,
			Category:   "modeling",
		},
		{
			Name:       "subdivide-surface",
			Phrases:    []string{"apply subdivision", "subdivide the mesh"},
			Keywords:   []string{"subdivision", "subdivide"},
			Skill:      "subdivide_surface",
			Params:     map[string]any{"subdivision_level": 2},
			Confidence: 0.95,
			Category:   "modeling",
			Priority:   10,
		},
		{
			Name:       "apply-material",
			Phrases:    []string{"apply material", "assign material"},
			Keywords:   []string{"assign"},
			Skill:      "apply_material_to_object",
			Confidence: 0.85,
			Category:   "shading",
			Priority:   5,
		},
	}
}

func TestMatch_PhraseContainmentScoresFull(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	res := m.Match("please create a cube at the origin")
	if !res.Matched {
		t.Fatal("matcher:matcher_test - phrase command did not match")
	}
	if res.Skill != "create_primitive" {
		t.Errorf("matcher:matcher_test - Skill = %q, want %q", res.Skill, "create_primitive")
	}
	if res.Confidence != 1.0 {
		t.Errorf("matcher:matcher_test - Confidence = %v, want 1.0", res.Confidence)
	}
	if res.Rule != "create-cube" {
		t.Errorf("matcher:matcher_test - Rule = %q, want %q", res.Rule, "create-cube")
	}
	if res.Category != "modeling" {
		t.Errorf("matcher:matcher_test - Category = %q, want %q", res.Category, "modeling")
	}
}

func TestMatch_KeywordScoreClearsRuleThreshold(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	// One of two keywords hits: score = 0.95 + 0.05*(1/2) = 0.975, above the
	// rule's own 0.95 threshold.
	res := m.Match("subdivision on the selected object")
	if !res.Matched {
		t.Fatal("matcher:matcher_test - single-keyword command did not match")
	}
	if res.Skill != "subdivide_surface" {
		t.Errorf("matcher:matcher_test - Skill = %q, want %q", res.Skill, "subdivide_surface")
	}
	want := 0.95 + 0.05*0.5
	if math.Abs(res.Confidence-want) > 1e-9 {
		t.Errorf("matcher:matcher_test - Confidence = %v, want %v", res.Confidence, want)
	}
}

func TestMatch_FullKeywordOverlapScoresHigher(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	partial := m.Match("cube please")
	full := m.Match("a cube shaped box")
	if !partial.Matched || !full.Matched {
		t.Fatal("matcher:matcher_test - keyword commands did not match")
	}
	if full.Confidence <= partial.Confidence {
		t.Errorf("matcher:matcher_test - full overlap %v not above partial overlap %v",
			full.Confidence, partial.Confidence)
	}
}

func TestMatch_PriorityOrdersEvaluation(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	// "apply subdivision" contains the subdivide phrase; priority 10 beats the
	// apply-material rule even though "apply material" shares a word.
	res := m.Match("apply subdivision")
	if !res.Matched || res.Skill != "subdivide_surface" {
		t.Errorf("matcher:matcher_test - Match = %+v, want subdivide_surface", res)
	}
}

func TestMatch_DeclarationOrderBreaksTies(t *testing.T) {
	rules := []Rule{
		{Name: "first", Keywords: []string{"widget"}, Skill: "skill_a", Confidence: 0.5},
		{Name: "second", Keywords: []string{"widget"}, Skill: "skill_b", Confidence: 0.5},
	}
	m := NewMatcher(rules, Config{})

	for i := 0; i < 10; i++ {
		res := m.Match("make a widget")
		if res.Skill != "skill_a" {
			t.Fatalf("matcher:matcher_test - tie broken to %q, want declaration-first %q", res.Skill, "skill_a")
		}
	}
}

func TestMatch_NormalizesCaseAndWhitespace(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	res := m.Match("  CREATE   a CuBe  ")
	if !res.Matched || res.Skill != "create_primitive" {
		t.Errorf("matcher:matcher_test - normalized command did not match: %+v", res)
	}
}

func TestMatch_PunctuationDoesNotBlockKeywords(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	res := m.Match("give me a cube!")
	if !res.Matched || res.Skill != "create_primitive" {
		t.Errorf("matcher:matcher_test - punctuated keyword did not match: %+v", res)
	}
}

func TestMatch_NoRuleFires(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	res := m.Match("what is the meaning of life")
	if res.Matched {
		t.Errorf("matcher:matcher_test - unrelated command matched: %+v", res)
	}
	if res.Confidence != 0 {
		t.Errorf("matcher:matcher_test - unmatched Confidence = %v, want 0", res.Confidence)
	}
}

func TestMatch_EmptyCommand(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	for _, cmd := range []string{"", "   ", "\t\n"} {
		if res := m.Match(cmd); res.Matched {
			t.Errorf("matcher:matcher_test - blank command %q matched: %+v", cmd, res)
		}
	}
}

func TestMatch_GlobalMinConfidenceFloor(t *testing.T) {
	rules := []Rule{
		{Name: "weak", Keywords: []string{"gadget", "gizmo", "widget", "doodad"}, Skill: "skill_a", Confidence: 0.2},
	}

	// One of four keywords: score = 0.2 + 0.8*0.25 = 0.4.
	loose := NewMatcher(rules, Config{})
	if res := loose.Match("a gadget"); !res.Matched {
		t.Fatalf("matcher:matcher_test - weak rule did not fire without floor: %+v", res)
	}

	strict := NewMatcher(rules, Config{MinConfidence: 0.9})
	if res := strict.Match("a gadget"); res.Matched {
		t.Errorf("matcher:matcher_test - weak rule fired despite global floor: %+v", res)
	}
}

func TestMatch_ParamsAreCopiedPerMatch(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	first := m.Match("create a cube")
	first.Params["primitive_type"] = "sphere"

	second := m.Match("create a cube")
	if got := second.Params["primitive_type"]; got != "cube" {
		t.Errorf("matcher:matcher_test - rule params mutated across matches: got %v", got)
	}
}

func TestRules_ReturnsEvaluationOrder(t *testing.T) {
	m := NewMatcher(testRules(), Config{})

	rules := m.Rules()
	if len(rules) != 3 {
		t.Fatalf("matcher:matcher_test - Rules len = %d, want 3", len(rules))
	}
	wantOrder := []string{"subdivide-surface", "apply-material", "create-cube"}
	for i, name := range wantOrder {
		if rules[i].Name != name {
			t.Errorf("matcher:matcher_test - Rules[%d].Name = %q, want %q", i, rules[i].Name, name)
		}
	}
}
