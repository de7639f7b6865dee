// Package engine abstracts the external 3D modeling/shading tool as a
// named-operation capability. The dispatch framework is polymorphic over this
// verb set and assumes nothing about a concrete engine's internal object model.
package engine

import (
	"context"
	"fmt"
)

// Engine operation names. Skills invoke the engine by name with keyword
// parameters and receive a data mapping back.
const (
	OpCreatePrimitive         = "create_primitive"
	OpExtrudeFaces            = "extrude_faces"
	OpSubdivideSurface        = "subdivide_surface"
	OpApplyMirrorModifier     = "apply_mirror_modifier"
	OpCreateArrayModifier     = "create_array_modifier"
	OpCreatePBRMaterial       = "create_pbr_material"
	OpApplyMaterialToObject   = "apply_material_to_object"
	OpCreateProceduralTexture = "create_procedural_texture"
)

// Engine is the capability interface to the live 3D tool.
//
// Invoke is synchronous and blocking from the caller's perspective. A live
// engine instance mutates a host scene and may not be reentrant; callers
// running dispatches concurrently are responsible for serializing calls to
// the same underlying instance — the framework does not do it for them.
type Engine interface {
	Invoke(ctx context.Context, op string, params map[string]any) (map[string]any, error)
}

// Error is an engine-level fault (e.g. referencing a nonexistent scene object).
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine %s: %s", e.Op, e.Message)
}

func errorf(op, format string, args ...any) *Error {
	return &Error{Op: op, Message: fmt.Sprintf(format, args...)}
}
