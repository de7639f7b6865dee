// Package skill implements the skill registry and parameter validation for
// the dispatch framework: named operations with declared parameter schemas,
// backed by an engine capability handler.
package skill

import (
	"context"
	"fmt"
)

// ParamType identifies the declared type of a skill parameter.
type ParamType string

// Supported parameter types.
const (
	TypeString ParamType = "string"
	TypeFloat  ParamType = "float"
	TypeInt    ParamType = "int"
	TypeBool   ParamType = "bool"
	// TypeEnum is a string restricted to the Allowed set.
	TypeEnum ParamType = "enum"
	// TypeVec3 is a 3-tuple of floats (locations, rotations, RGB colors).
	TypeVec3 ParamType = "vec3"
	// TypeIntList is a list of integers (e.g. face indices).
	TypeIntList ParamType = "int_list"
)

// ParamSpec declares a single parameter of a skill's schema.
type ParamSpec struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description,omitempty"`

	// Allowed restricts enum parameters to this value set.
	Allowed []string `json:"allowed,omitempty"`
	// Min/Max bound numeric parameters (and each component of a vec3) when set.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
	// ExclusiveMin makes Min an exclusive bound (e.g. sizes must be > 0).
	ExclusiveMin bool `json:"exclusiveMin,omitempty"`
	// NonEmpty rejects empty lists and empty strings when set.
	NonEmpty bool `json:"nonEmpty,omitempty"`
}

// Handler is the engine capability behind a skill. It receives validated
// parameters and returns the engine's data mapping.
type Handler func(ctx context.Context, params *Params) (map[string]any, error)

// SkillSpec describes a registered skill: unique name, parameter schema in
// declaration order, and the handler invoked with validated parameters.
// A SkillSpec is immutable once registered.
type SkillSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	Params      []ParamSpec `json:"params"`
	Handler     Handler     `json:"-"`
}

// Param returns the declared spec for a parameter name, or nil.
func (s *SkillSpec) Param(name string) *ParamSpec {
	for i := range s.Params {
		if s.Params[i].Name == name {
			return &s.Params[i]
		}
	}
	return nil
}

// DuplicateSkillError is returned when registering a name that already exists.
type DuplicateSkillError struct {
	Name string
}

func (e *DuplicateSkillError) Error() string {
	return fmt.Sprintf("skill already registered: %s", e.Name)
}

// UnknownSkillError is returned when resolving a name that was never registered.
type UnknownSkillError struct {
	Name string
}

func (e *UnknownSkillError) Error() string {
	return fmt.Sprintf("unknown skill: %s", e.Name)
}
