package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const simLogPrefix = "engine:sim"

// primitiveGeometry holds simulated vertex/face counts per primitive type.
var primitiveGeometry = map[string][2]int{
	"cube":     {8, 6},
	"sphere":   {482, 480},
	"cylinder": {64, 62},
	"cone":     {33, 31},
	"plane":    {4, 1},
	"torus":    {576, 576},
}

// renderEngineCompatibility lists the render engines simulated PBR materials target.
var renderEngineCompatibility = []string{"Cycles", "Eevee", "Arnold", "V-Ray"}

type simObject struct {
	primitiveType string
	vertices      int
	faces         int
}

// Sim is an in-process stand-in for a live 3D engine. It tracks created
// objects, materials, and textures so operations against names that were
// never created fail like real scene lookups do. All state is mutex-guarded,
// which also serializes concurrent invokes the way a host must for a live
// engine instance.
type Sim struct {
	mu        sync.Mutex
	objects   map[string]*simObject
	materials map[string]struct{}
	textures  map[string]struct{}
	counters  map[string]int
}

// NewSim creates an empty simulated engine.
func NewSim() *Sim {
	return &Sim{
		objects:   make(map[string]*simObject),
		materials: make(map[string]struct{}),
		textures:  make(map[string]struct{}),
		counters:  make(map[string]int),
	}
}

// Invoke executes a named operation against the simulated scene.
func (s *Sim) Invoke(ctx context.Context, op string, params map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Debug(fmt.Sprintf("%s - Invoke op=%s", simLogPrefix, op))

	switch op {
	case OpCreatePrimitive:
		return s.createPrimitive(params)
	case OpExtrudeFaces:
		return s.extrudeFaces(params)
	case OpSubdivideSurface:
		return s.subdivideSurface(params)
	case OpApplyMirrorModifier:
		return s.applyMirrorModifier(params)
	case OpCreateArrayModifier:
		return s.createArrayModifier(params)
	case OpCreatePBRMaterial:
		return s.createPBRMaterial(params)
	case OpApplyMaterialToObject:
		return s.applyMaterialToObject(params)
	case OpCreateProceduralTexture:
		return s.createProceduralTexture(params)
	}
	return nil, errorf(op, "unknown operation")
}

// ObjectCount returns the number of objects in the simulated scene.
func (s *Sim) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *Sim) createPrimitive(params map[string]any) (map[string]any, error) {
	primitiveType := pstring(params, "primitive_type")
	geom, ok := primitiveGeometry[primitiveType]
	if !ok {
		return nil, errorf(OpCreatePrimitive, "unsupported primitive type %q", primitiveType)
	}

	name := pstring(params, "name")
	if name == "" {
		s.counters[primitiveType]++
		name = fmt.Sprintf("%s.%03d", capitalize(primitiveType), s.counters[primitiveType])
	}
	if _, exists := s.objects[name]; exists {
		return nil, errorf(OpCreatePrimitive, "object %q already exists in scene", name)
	}

	s.objects[name] = &simObject{
		primitiveType: primitiveType,
		vertices:      geom[0],
		faces:         geom[1],
	}

	return map[string]any{
		"object_name":    name,
		"primitive_type": primitiveType,
		"location":       pvec3(params, "location"),
		"rotation":       pvec3(params, "rotation"),
		"size":           pfloat(params, "size"),
		"vertex_count":   geom[0],
		"face_count":     geom[1],
	}, nil
}

func (s *Sim) extrudeFaces(params map[string]any) (map[string]any, error) {
	name := pstring(params, "object_name")
	obj, err := s.lookupObject(OpExtrudeFaces, name)
	if err != nil {
		return nil, err
	}

	indices := pintList(params, "face_indices")
	for _, idx := range indices {
		if idx < 0 || idx >= obj.faces {
			return nil, errorf(OpExtrudeFaces, "face index %d out of bounds for %q (%d faces)", idx, name, obj.faces)
		}
	}

	// Each extruded face adds four vertices and four side faces.
	obj.vertices += len(indices) * 4
	obj.faces += len(indices) * 4

	return map[string]any{
		"object_name":      name,
		"extruded_faces":   len(indices),
		"extrude_distance": pfloat(params, "extrude_distance"),
		"direction":        pvec3(params, "direction"),
	}, nil
}

func (s *Sim) subdivideSurface(params map[string]any) (map[string]any, error) {
	name := pstring(params, "object_name")
	obj, err := s.lookupObject(OpSubdivideSurface, name)
	if err != nil {
		return nil, err
	}

	level := pint(params, "subdivision_level")
	newVertexCount := obj.vertices
	for i := 0; i < level; i++ {
		newVertexCount *= 4
	}
	obj.vertices = newVertexCount

	impact := "low"
	switch {
	case level > 3:
		impact = "high"
	case level > 1:
		impact = "medium"
	}

	return map[string]any{
		"object_name":        name,
		"subdivision_level":  level,
		"smooth_shading":     pbool(params, "smooth"),
		"new_vertex_count":   newVertexCount,
		"performance_impact": impact,
	}, nil
}

func (s *Sim) applyMirrorModifier(params map[string]any) (map[string]any, error) {
	name := pstring(params, "object_name")
	if _, err := s.lookupObject(OpApplyMirrorModifier, name); err != nil {
		return nil, err
	}

	return map[string]any{
		"object_name":               name,
		"mirror_axis":               pstring(params, "axis"),
		"use_clipping":              pbool(params, "use_clipping"),
		"merge_threshold":           pfloat(params, "merge_threshold"),
		"estimated_vertex_doubling": true,
	}, nil
}

func (s *Sim) createArrayModifier(params map[string]any) (map[string]any, error) {
	name := pstring(params, "object_name")
	if _, err := s.lookupObject(OpCreateArrayModifier, name); err != nil {
		return nil, err
	}

	count := pint(params, "count")
	offset := pfloat(params, "offset_distance")

	return map[string]any{
		"object_name":     name,
		"total_instances": count,
		"offset_distance": offset,
		"array_axis":      pstring(params, "axis"),
		"total_length":    offset * float64(count-1),
	}, nil
}

func (s *Sim) createPBRMaterial(params map[string]any) (map[string]any, error) {
	name := pstring(params, "material_name")
	if _, exists := s.materials[name]; exists {
		return nil, errorf(OpCreatePBRMaterial, "material %q already exists", name)
	}

	metallic := pfloat(params, "metallic")
	roughness := pfloat(params, "roughness")

	materialType := "Dielectric"
	if metallic > 0.7 {
		materialType = "Metallic"
	}
	surfaceType := "Satin"
	switch {
	case roughness < 0.3:
		surfaceType = "Glossy"
	case roughness > 0.7:
		surfaceType = "Rough"
	}

	s.materials[name] = struct{}{}

	return map[string]any{
		"material_name":          name,
		"material_type":          "PBR",
		"surface_classification": materialType + " " + surfaceType,
		"properties": map[string]any{
			"base_color":        pvec3(params, "base_color"),
			"metallic":          metallic,
			"roughness":         roughness,
			"normal_strength":   pfloat(params, "normal_strength"),
			"emission_color":    pvec3(params, "emission_color"),
			"emission_strength": pfloat(params, "emission_strength"),
		},
		"render_engine_compatibility": renderEngineCompatibility,
	}, nil
}

func (s *Sim) applyMaterialToObject(params map[string]any) (map[string]any, error) {
	objectName := pstring(params, "object_name")
	materialName := pstring(params, "material_name")

	if _, err := s.lookupObject(OpApplyMaterialToObject, objectName); err != nil {
		return nil, err
	}
	if _, ok := s.materials[materialName]; !ok {
		return nil, errorf(OpApplyMaterialToObject, "material %q not found", materialName)
	}

	return map[string]any{
		"object_name":        objectName,
		"material_name":      materialName,
		"material_slot":      pint(params, "material_slot"),
		"application_method": "direct_assignment",
	}, nil
}

func (s *Sim) createProceduralTexture(params map[string]any) (map[string]any, error) {
	name := pstring(params, "texture_name")
	if _, exists := s.textures[name]; exists {
		return nil, errorf(OpCreateProceduralTexture, "texture %q already exists", name)
	}
	s.textures[name] = struct{}{}

	return map[string]any{
		"texture_name": name,
		"texture_type": pstring(params, "texture_type"),
		"properties": map[string]any{
			"scale":      pfloat(params, "scale"),
			"detail":     pfloat(params, "detail"),
			"distortion": pfloat(params, "distortion"),
			// Default black-to-white ramp.
			"color_ramp_stops": 2,
		},
		"node_type":   "procedural",
		"output_type": "color_and_factor",
	}, nil
}

func (s *Sim) lookupObject(op, name string) (*simObject, error) {
	obj, ok := s.objects[name]
	if !ok {
		return nil, errorf(op, "object %q not found in scene", name)
	}
	return obj, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Parameter readers over validated keyword mappings. Values arrive in the
// canonical shapes the validator produces.

func pstring(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

func pfloat(params map[string]any, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func pint(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func pbool(params map[string]any, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func pvec3(params map[string]any, key string) [3]float64 {
	v, _ := params[key].([3]float64)
	return v
}

func pintList(params map[string]any, key string) []int {
	v, _ := params[key].([]int)
	return v
}
