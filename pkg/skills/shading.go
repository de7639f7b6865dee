package skills

import (
	"github.com/miktos/nexus-dispatch/pkg/engine"
	"github.com/miktos/nexus-dispatch/pkg/skill"
)

// CategoryShading labels material and texture skills.
const CategoryShading = "shading"

// ShadingSpecs returns the material and texture skills.
func ShadingSpecs(eng engine.Engine) []skill.SkillSpec {
	return []skill.SkillSpec{
		{
			Name:        "create_pbr_material",
			Description: "Creates a physically-based rendering material with standard properties.",
			Category:    CategoryShading,
			Params: []skill.ParamSpec{
				{Name: "material_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{Name: "base_color", Type: skill.TypeVec3, Default: [3]float64{0.8, 0.8, 0.8}, Min: fptr(0), Max: fptr(1)},
				{Name: "metallic", Type: skill.TypeFloat, Default: 0.0, Min: fptr(0), Max: fptr(1)},
				{Name: "roughness", Type: skill.TypeFloat, Default: 0.5, Min: fptr(0), Max: fptr(1)},
				{Name: "normal_strength", Type: skill.TypeFloat, Default: 1.0, Min: fptr(0), Max: fptr(2)},
				{Name: "emission_color", Type: skill.TypeVec3, Default: [3]float64{0, 0, 0}, Min: fptr(0), Max: fptr(1)},
				{Name: "emission_strength", Type: skill.TypeFloat, Default: 0.0, Min: fptr(0)},
			},
			Handler: invoke(eng, engine.OpCreatePBRMaterial),
		},
		{
			Name:        "apply_material_to_object",
			Description: "Applies an existing material to a 3D object.",
			Category:    CategoryShading,
			Params: []skill.ParamSpec{
				{Name: "object_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{Name: "material_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{Name: "material_slot", Type: skill.TypeInt, Default: 0, Min: fptr(0)},
			},
			Handler: invoke(eng, engine.OpApplyMaterialToObject),
		},
		{
			Name:        "create_procedural_texture",
			Description: "Creates a procedural texture node for material use.",
			Category:    CategoryShading,
			Params: []skill.ParamSpec{
				{Name: "texture_name", Type: skill.TypeString, Required: true, NonEmpty: true},
				{
					Name: "texture_type", Type: skill.TypeEnum, Default: "noise",
					Allowed: []string{"noise", "voronoi", "wave", "magic", "brick", "checker"},
				},
				{Name: "scale", Type: skill.TypeFloat, Default: 1.0},
				{Name: "detail", Type: skill.TypeFloat, Default: 2.0},
				{Name: "distortion", Type: skill.TypeFloat, Default: 0.0},
			},
			Handler: invoke(eng, engine.OpCreateProceduralTexture),
		},
	}
}
