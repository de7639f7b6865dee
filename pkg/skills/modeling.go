package skills

import (
	"github.com/miktos/nexus-dispatch/pkg/engine"
	"github.com/miktos/nexus-dispatch/pkg/skill"
)

// CategoryModeling labels mesh creation and manipulation skills.
const CategoryModeling = "modeling"

// ModelingSpecs returns the mesh creation and manipulation skills.
func ModelingSpecs(eng engine.Engine) []skill.SkillSpec {
	return []skill.SkillSpec{
		{
			Name:        "create_primitive",
			Description: "Creates a new primitive mesh object in the 3D scene.",
			Category:    CategoryModeling,
			Params: []skill.ParamSpec{
				{
					Name: "primitive_type", Type: skill.TypeEnum, Default: "cube",
					Allowed: []string{"cube", "sphere", "cylinder", "cone", "plane", "torus"},
				},
				{Name: "size", Type: skill.TypeFloat, Default: 2.0, Min: fptr(0), ExclusiveMin: true},
				{Name: "location", Type: skill.TypeVec3, Default: [3]float64{0, 0, 0}},
				{Name: "rotation", Type: skill.TypeVec3, Default: [3]float64{0, 0, 0}},
				{Name: "name", Type: skill.TypeString, Description: "Custom object name; auto-generated when omitted."},
			},
			Handler: invoke(eng, engine.OpCreatePrimitive),
		},
		{
			Name:        "extrude_faces",
			Description: "Extrudes selected faces of a mesh object.",
			Category:    CategoryModeling,
			Params: []skill.ParamSpec{
				{Name: "object_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{Name: "face_indices", Type: skill.TypeIntList, Required: true, NonEmpty: true},
				{Name: "extrude_distance", Type: skill.TypeFloat, Default: 1.0},
				{Name: "direction", Type: skill.TypeVec3, Default: [3]float64{0, 0, 1}},
			},
			Handler: invoke(eng, engine.OpExtrudeFaces),
		},
		{
			Name:        "subdivide_surface",
			Description: "Applies a subdivision surface modifier to increase mesh resolution.",
			Category:    CategoryModeling,
			Params: []skill.ParamSpec{
				{Name: "object_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{Name: "subdivision_level", Type: skill.TypeInt, Default: 1, Min: fptr(1), Max: fptr(10)},
				{Name: "smooth", Type: skill.TypeBool, Default: true},
			},
			Handler: invoke(eng, engine.OpSubdivideSurface),
		},
		{
			Name:        "apply_mirror_modifier",
			Description: "Applies a mirror modifier for symmetrical modeling.",
			Category:    CategoryModeling,
			Params: []skill.ParamSpec{
				{Name: "object_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{Name: "axis", Type: skill.TypeEnum, Default: "X", Allowed: []string{"X", "Y", "Z"}},
				{Name: "use_clipping", Type: skill.TypeBool, Default: true},
				{Name: "merge_threshold", Type: skill.TypeFloat, Default: 0.001, Min: fptr(0)},
			},
			Handler: invoke(eng, engine.OpApplyMirrorModifier),
		},
		{
			Name:        "create_array_modifier",
			Description: "Creates an array modifier to duplicate objects along an axis.",
			Category:    CategoryModeling,
			Params: []skill.ParamSpec{
				{Name: "object_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{Name: "count", Type: skill.TypeInt, Default: 3, Min: fptr(1)},
				{Name: "offset_distance", Type: skill.TypeFloat, Default: 2.0},
				{Name: "axis", Type: skill.TypeEnum, Default: "X", Allowed: []string{"X", "Y", "Z"}},
			},
			Handler: invoke(eng, engine.OpCreateArrayModifier),
		},
	}
}
