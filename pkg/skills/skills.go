// Package skills provides the built-in skill library: modeling and shading
// operations wrapped as schema-validated skills over an engine capability.
package skills

import (
	"context"

	"github.com/miktos/nexus-dispatch/pkg/engine"
	"github.com/miktos/nexus-dispatch/pkg/skill"
)

// Specs returns the full built-in skill library backed by the given engine,
// in a stable order: modeling first, then shading.
func Specs(eng engine.Engine) []skill.SkillSpec {
	return append(ModelingSpecs(eng), ShadingSpecs(eng)...)
}

// RegisterAll registers the full built-in library on a registry.
func RegisterAll(reg *skill.Registry, eng engine.Engine) error {
	for _, spec := range Specs(eng) {
		if err := reg.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// invoke wraps an engine operation as a skill handler: validated keyword
// parameters in, engine data mapping out.
func invoke(eng engine.Engine, op string) skill.Handler {
	return func(ctx context.Context, params *skill.Params) (map[string]any, error) {
		return eng.Invoke(ctx, op, params.Map())
	}
}

func fptr(v float64) *float64 { return &v }
