package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSim_CreatePrimitiveGeometry(t *testing.T) {
	cases := []struct {
		primitive string
		vertices  int
		faces     int
	}{
		{"cube", 8, 6},
		{"sphere", 482, 480},
		{"cylinder", 64, 62},
		{"cone", 33, 31},
		{"plane", 4, 1},
		{"torus", 576, 576},
	}

	for _, tc := range cases {
		sim := NewSim()
		data, err := sim.Invoke(context.Background(), OpCreatePrimitive, map[string]any{
			"primitive_type": tc.primitive,
			"size":           2.0,
		})
		if err != nil {
			t.Fatalf("engine:sim_test - create %s returned error: %v", tc.primitive, err)
		}
		if got := data["vertex_count"]; got != tc.vertices {
			t.Errorf("engine:sim_test - %s vertex_count = %v, want %d", tc.primitive, got, tc.vertices)
		}
		if got := data["face_count"]; got != tc.faces {
			t.Errorf("engine:sim_test - %s face_count = %v, want %d", tc.primitive, got, tc.faces)
		}
	}
}

func TestSim_CreatePrimitiveAutoNames(t *testing.T) {
	sim := NewSim()

	first, err := sim.Invoke(context.Background(), OpCreatePrimitive, map[string]any{"primitive_type": "cube"})
	if err != nil {
		t.Fatalf("engine:sim_test - first create returned error: %v", err)
	}
	second, err := sim.Invoke(context.Background(), OpCreatePrimitive, map[string]any{"primitive_type": "cube"})
	if err != nil {
		t.Fatalf("engine:sim_test - second create returned error: %v", err)
	}

	if got := first["object_name"]; got != "Cube.001" {
		t.Errorf("engine:sim_test - first object_name = %v, want Cube.001", got)
	}
	if got := second["object_name"]; got != "Cube.002" {
		t.Errorf("engine:sim_test - second object_name = %v, want Cube.002", got)
	}
	if sim.ObjectCount() != 2 {
		t.Errorf("engine:sim_test - ObjectCount = %d, want 2", sim.ObjectCount())
	}
}

func TestSim_CreatePrimitiveDuplicateName(t *testing.T) {
	sim := NewSim()
	params := map[string]any{"primitive_type": "cube", "name": "Hero"}

	if _, err := sim.Invoke(context.Background(), OpCreatePrimitive, params); err != nil {
		t.Fatalf("engine:sim_test - create returned error: %v", err)
	}
	_, err := sim.Invoke(context.Background(), OpCreatePrimitive, params)
	if err == nil {
		t.Fatal("engine:sim_test - duplicate named create returned nil error")
	}
	var engErr *Error
	if !errors.As(err, &engErr) {
		t.Errorf("engine:sim_test - error = %T, want *engine.Error", err)
	}
}

func TestSim_LookupMissingObject(t *testing.T) {
	sim := NewSim()

	_, err := sim.Invoke(context.Background(), OpSubdivideSurface, map[string]any{
		"object_name":       "Ghost",
		"subdivision_level": 2,
	})
	if err == nil {
		t.Fatal("engine:sim_test - subdivide on missing object returned nil error")
	}
	if !strings.Contains(err.Error(), "not found in scene") {
		t.Errorf("engine:sim_test - error = %q, want scene lookup failure", err)
	}
}

func TestSim_SubdivideSurfaceImpact(t *testing.T) {
	cases := []struct {
		level    int
		impact   string
		vertices int // cube base 8, *4 per level
	}{
		{1, "low", 32},
		{2, "medium", 128},
		{4, "high", 2048},
	}

	for _, tc := range cases {
		sim := NewSim()
		if _, err := sim.Invoke(context.Background(), OpCreatePrimitive, map[string]any{"primitive_type": "cube", "name": "Cube"}); err != nil {
			t.Fatalf("engine:sim_test - create returned error: %v", err)
		}

		data, err := sim.Invoke(context.Background(), OpSubdivideSurface, map[string]any{
			"object_name":       "Cube",
			"subdivision_level": tc.level,
			"smooth":            true,
		})
		if err != nil {
			t.Fatalf("engine:sim_test - subdivide level %d returned error: %v", tc.level, err)
		}
		if got := data["performance_impact"]; got != tc.impact {
			t.Errorf("engine:sim_test - level %d performance_impact = %v, want %s", tc.level, got, tc.impact)
		}
		if got := data["new_vertex_count"]; got != tc.vertices {
			t.Errorf("engine:sim_test - level %d new_vertex_count = %v, want %d", tc.level, got, tc.vertices)
		}
	}
}

func TestSim_ExtrudeFacesBoundsCheck(t *testing.T) {
	sim := NewSim()
	if _, err := sim.Invoke(context.Background(), OpCreatePrimitive, map[string]any{"primitive_type": "cube", "name": "Cube"}); err != nil {
		t.Fatalf("engine:sim_test - create returned error: %v", err)
	}

	data, err := sim.Invoke(context.Background(), OpExtrudeFaces, map[string]any{
		"object_name":      "Cube",
		"face_indices":     []int{0, 1, 5},
		"extrude_distance": 1.0,
	})
	if err != nil {
		t.Fatalf("engine:sim_test - extrude returned error: %v", err)
	}
	if got := data["extruded_faces"]; got != 3 {
		t.Errorf("engine:sim_test - extruded_faces = %v, want 3", got)
	}

	// A cube has 6 faces; index 6 is out of bounds.
	_, err = sim.Invoke(context.Background(), OpExtrudeFaces, map[string]any{
		"object_name":  "Cube",
		"face_indices": []int{6},
	})
	if err == nil {
		t.Error("engine:sim_test - out-of-bounds face index returned nil error")
	}
}

func TestSim_PBRMaterialClassification(t *testing.T) {
	cases := []struct {
		metallic  float64
		roughness float64
		want      string
	}{
		{0.9, 0.1, "Metallic Glossy"},
		{0.9, 0.9, "Metallic Rough"},
		{0.1, 0.1, "Dielectric Glossy"},
		{0.1, 0.5, "Dielectric Satin"},
		{0.1, 0.9, "Dielectric Rough"},
	}

	for i, tc := range cases {
		sim := NewSim()
		data, err := sim.Invoke(context.Background(), OpCreatePBRMaterial, map[string]any{
			"material_name": "Mat",
			"metallic":      tc.metallic,
			"roughness":     tc.roughness,
		})
		if err != nil {
			t.Fatalf("engine:sim_test - case %d returned error: %v", i, err)
		}
		if got := data["surface_classification"]; got != tc.want {
			t.Errorf("engine:sim_test - metallic=%v roughness=%v classification = %v, want %s",
				tc.metallic, tc.roughness, got, tc.want)
		}
	}
}

func TestSim_ApplyMaterialRequiresBothSides(t *testing.T) {
	sim := NewSim()
	ctx := context.Background()

	if _, err := sim.Invoke(ctx, OpCreatePrimitive, map[string]any{"primitive_type": "cube", "name": "Cube"}); err != nil {
		t.Fatalf("engine:sim_test - create object returned error: %v", err)
	}
	if _, err := sim.Invoke(ctx, OpCreatePBRMaterial, map[string]any{"material_name": "Steel", "metallic": 1.0, "roughness": 0.2}); err != nil {
		t.Fatalf("engine:sim_test - create material returned error: %v", err)
	}

	data, err := sim.Invoke(ctx, OpApplyMaterialToObject, map[string]any{
		"object_name":   "Cube",
		"material_name": "Steel",
	})
	if err != nil {
		t.Fatalf("engine:sim_test - apply returned error: %v", err)
	}
	if got := data["application_method"]; got != "direct_assignment" {
		t.Errorf("engine:sim_test - application_method = %v, want direct_assignment", got)
	}

	if _, err := sim.Invoke(ctx, OpApplyMaterialToObject, map[string]any{
		"object_name":   "Cube",
		"material_name": "Missing",
	}); err == nil {
		t.Error("engine:sim_test - apply with missing material returned nil error")
	}
	if _, err := sim.Invoke(ctx, OpApplyMaterialToObject, map[string]any{
		"object_name":   "Missing",
		"material_name": "Steel",
	}); err == nil {
		t.Error("engine:sim_test - apply to missing object returned nil error")
	}
}

func TestSim_CreateArrayModifierLength(t *testing.T) {
	sim := NewSim()
	ctx := context.Background()

	if _, err := sim.Invoke(ctx, OpCreatePrimitive, map[string]any{"primitive_type": "cube", "name": "Cube"}); err != nil {
		t.Fatalf("engine:sim_test - create returned error: %v", err)
	}

	data, err := sim.Invoke(ctx, OpCreateArrayModifier, map[string]any{
		"object_name":     "Cube",
		"count":           4,
		"offset_distance": 2.5,
		"axis":            "Y",
	})
	if err != nil {
		t.Fatalf("engine:sim_test - array returned error: %v", err)
	}
	if got := data["total_length"]; got != 7.5 {
		t.Errorf("engine:sim_test - total_length = %v, want 7.5", got)
	}
	if got := data["array_axis"]; got != "Y" {
		t.Errorf("engine:sim_test - array_axis = %v, want Y", got)
	}
}

func TestSim_CreateProceduralTextureNode(t *testing.T) {
	sim := NewSim()

	data, err := sim.Invoke(context.Background(), OpCreateProceduralTexture, map[string]any{
		"texture_name": "Noise.001",
		"texture_type": "voronoi",
		"scale":        5.0,
	})
	if err != nil {
		t.Fatalf("engine:sim_test - texture returned error: %v", err)
	}
	if got := data["node_type"]; got != "procedural" {
		t.Errorf("engine:sim_test - node_type = %v, want procedural", got)
	}
	if got := data["output_type"]; got != "color_and_factor" {
		t.Errorf("engine:sim_test - output_type = %v, want color_and_factor", got)
	}

	if _, err := sim.Invoke(context.Background(), OpCreateProceduralTexture, map[string]any{
		"texture_name": "Noise.001",
	}); err == nil {
		t.Error("engine:sim_test - duplicate texture name returned nil error")
	}
}

func TestSim_UnknownOperation(t *testing.T) {
	sim := NewSim()

	_, err := sim.Invoke(context.Background(), "teleport_object", nil)
	if err == nil {
		t.Fatal("engine:sim_test - unknown operation returned nil error")
	}
}

func TestSim_CanceledContext(t *testing.T) {
	sim := NewSim()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Invoke(ctx, OpCreatePrimitive, map[string]any{"primitive_type": "cube"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("engine:sim_test - error = %v, want context.Canceled", err)
	}
}
