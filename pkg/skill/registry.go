package skill

import (
	"fmt"
	"log/slog"
)

const registryLogPrefix = "skill:registry"

// Registry maps skill names to their specs. It is pure lookup: registration
// happens once at startup, after which the registry is read-only and safe to
// share across concurrent dispatches without synchronization.
type Registry struct {
	specs map[string]*SkillSpec
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*SkillSpec)}
}

// Register adds a skill spec. Fails with *DuplicateSkillError if the name is taken.
func (r *Registry) Register(spec SkillSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("%s - skill name must not be empty", registryLogPrefix)
	}
	if _, ok := r.specs[spec.Name]; ok {
		return &DuplicateSkillError{Name: spec.Name}
	}
	s := spec // copy; callers keep no handle into the registry
	r.specs[spec.Name] = &s
	r.order = append(r.order, spec.Name)
	slog.Debug(fmt.Sprintf("%s - Registered skill %s (%d params)", registryLogPrefix, spec.Name, len(spec.Params)))
	return nil
}

// MustRegister registers specs and panics on failure. For process-start wiring
// of the built-in skill library, where a duplicate is a programming error.
func (r *Registry) MustRegister(specs ...SkillSpec) {
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the spec for a name. Fails with *UnknownSkillError if absent.
func (r *Registry) Resolve(name string) (*SkillSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, &UnknownSkillError{Name: name}
	}
	return spec, nil
}

// List returns all registered specs in registration order.
func (r *Registry) List() []*SkillSpec {
	out := make([]*SkillSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	return len(r.specs)
}
