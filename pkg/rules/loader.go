package rules

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	masterminds "github.com/Masterminds/semver/v3"
)

const logPrefix = "rules:loader"

// SupportedFormat is the rule-file format versions this loader accepts.
const SupportedFormat = "^1"

// LoadRulesConfig loads a rule-set config from file paths or environment.
// It tries paths in order: first any paths passed in, then DISPATCH_RULES_FILE
// env, then defaults. An unreadable or incompatible file is skipped with a
// warning; if nothing loads, the embedded default rule set is returned.
func LoadRulesConfig(paths ...string) (*RulesConfig, error) {
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("DISPATCH_RULES_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/rules.json", "rules.json")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var cfg RulesConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse rules file %s: %v", logPrefix, p, err))
			continue
		}
		if err := CheckFormatVersion(cfg.Version); err != nil {
			slog.Warn(fmt.Sprintf("%s - Skipping rules file %s: %v", logPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded %d rules from %s", logPrefix, len(cfg.Rules), p))
		return &cfg, nil
	}

	slog.Info(fmt.Sprintf("%s - Using default rule set", logPrefix))
	return GetDefaultRulesConfig(), nil
}

// CheckFormatVersion verifies a rule-file version against SupportedFormat.
func CheckFormatVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%s - rules file has no version", logPrefix)
	}
	v, err := masterminds.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%s - invalid rules file version %q: %w", logPrefix, version, err)
	}
	constraint, err := masterminds.NewConstraint(SupportedFormat)
	if err != nil {
		return fmt.Errorf("%s - invalid format constraint %q: %w", logPrefix, SupportedFormat, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%s - rules file version %s does not satisfy %s", logPrefix, version, SupportedFormat)
	}
	return nil
}

// MergeRulesConfigs merges an override config into a base config. Override
// rules with the same name replace base rules in place; unnamed or new rules
// are appended after the base set.
func MergeRulesConfigs(base, override *RulesConfig) *RulesConfig {
	merged := *base
	merged.Rules = make([]RuleEntry, len(base.Rules))
	copy(merged.Rules, base.Rules)

	byName := make(map[string]int, len(merged.Rules))
	for i, r := range merged.Rules {
		if r.Name != "" {
			byName[r.Name] = i
		}
	}

	for _, r := range override.Rules {
		if r.Name != "" {
			if idx, ok := byName[r.Name]; ok {
				merged.Rules[idx] = r
				continue
			}
		}
		merged.Rules = append(merged.Rules, r)
	}

	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Version != "" {
		merged.Version = override.Version
	}
	return &merged
}

// GetDefaultRulesConfig returns the embedded fallback rule set covering the
// built-in modeling and shading skill library.
func GetDefaultRulesConfig() *RulesConfig {
	return &RulesConfig{
		Name:        "nexus-default-rules",
		Version:     "1.0.0",
		Description: "Default pattern rules for the built-in skill library",
		Rules: []RuleEntry{
			{
				Name:       "create-cube",
				Phrases:    []string{"create a cube", "add a cube", "make a cube", "new cube"},
				Keywords:   []string{"cube", "box"},
				Skill:      "create_primitive",
				Params:     map[string]any{"primitive_type": "cube"},
				Confidence: 0.8,
				Category:   "modeling",
			},
			{
				Name:       "create-sphere",
				Phrases:    []string{"create a sphere", "add a sphere", "make a sphere"},
				Keywords:   []string{"sphere", "ball"},
				Skill:      "create_primitive",
				Params:     map[string]any{"primitive_type": "sphere"},
				Confidence: 0.8,
				Category:   "modeling",
			},
			{
				Name:       "create-cylinder",
				Phrases:    []string{"create a cylinder", "add a cylinder"},
				Keywords:   []string{"cylinder"},
				Skill:      "create_primitive",
				Params:     map[string]any{"primitive_type": "cylinder"},
				Confidence: 0.85,
				Category:   "modeling",
			},
			{
				Name:       "create-plane",
				Phrases:    []string{"create a plane", "add a plane", "add a ground plane"},
				Keywords:   []string{"plane", "ground"},
				Skill:      "create_primitive",
				Params:     map[string]any{"primitive_type": "plane"},
				Confidence: 0.8,
				Category:   "modeling",
			},
			{
				Name:       "create-torus",
				Phrases:    []string{"create a torus", "add a torus", "add a donut"},
				Keywords:   []string{"torus", "donut"},
				Skill:      "create_primitive",
				Params:     map[string]any{"primitive_type": "torus"},
				Confidence: 0.8,
				Category:   "modeling",
			},
			{
				Name:       "extrude-faces",
				Phrases:    []string{"extrude faces", "extrude the faces", "extrude selection"},
				Keywords:   []string{"extrude", "extrusion"},
				Skill:      "extrude_faces",
				Confidence: 0.85,
				Category:   "modeling",
			},
			{
				Name:       "subdivide-surface",
				Phrases:    []string{"apply subdivision", "subdivide the mesh", "smooth the mesh"},
				Keywords:   []string{"subdivision", "subdivide"},
				Skill:      "subdivide_surface",
				Params:     map[string]any{"subdivision_level": 2, "smooth": true},
				Confidence: 0.95,
				Category:   "modeling",
				Priority:   10,
			},
			{
				Name:       "mirror-modifier",
				Phrases:    []string{"mirror the object", "apply mirror", "make it symmetrical"},
				Keywords:   []string{"mirror", "symmetry", "symmetrical"},
				Skill:      "apply_mirror_modifier",
				Confidence: 0.85,
				Category:   "modeling",
			},
			{
				Name:       "array-modifier",
				Phrases:    []string{"create an array", "repeat the object", "duplicate along"},
				Keywords:   []string{"array", "duplicate", "repeat"},
				Skill:      "create_array_modifier",
				Confidence: 0.8,
				Category:   "modeling",
			},
			{
				Name:       "apply-material",
				Phrases:    []string{"apply material", "apply the material", "assign material", "assign the material"},
				Keywords:   []string{"assign"},
				Skill:      "apply_material_to_object",
				Confidence: 0.85,
				Category:   "shading",
				Priority:   5,
			},
			{
				Name:       "create-pbr-material",
				Phrases:    []string{"create a material", "new material", "pbr material", "create a pbr material"},
				Keywords:   []string{"material", "pbr", "shader", "metallic", "roughness"},
				Skill:      "create_pbr_material",
				Confidence: 0.85,
				Category:   "shading",
			},
			{
				Name:       "create-procedural-texture",
				Phrases:    []string{"create a texture", "procedural texture", "add a noise texture"},
				Keywords:   []string{"texture", "noise", "voronoi", "procedural"},
				Skill:      "create_procedural_texture",
				Confidence: 0.8,
				Category:   "shading",
			},
		},
	}
}
