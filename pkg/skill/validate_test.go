package skill

import (
	"errors"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func testSpec() *SkillSpec {
	return &SkillSpec{
		Name: "create_primitive",
		Params: []ParamSpec{
			{Name: "primitive_type", Type: TypeEnum, Default: "cube", Allowed: []string{"cube", "sphere", "cylinder"}},
			{Name: "size", Type: TypeFloat, Default: 2.0, Min: fptr(0), ExclusiveMin: true},
			{Name: "location", Type: TypeVec3, Default: [3]float64{0, 0, 0}},
			{Name: "name", Type: TypeString},
		},
	}
}

func wantValidationError(t *testing.T, err error, kind, field string) *ValidationError {
	t.Helper()
	if err == nil {
		t.Fatalf("skill:validate_test - Validate returned nil error, want kind %s", kind)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("skill:validate_test - Validate error = %T, want *ValidationError", err)
	}
	if verr.Kind != kind {
		t.Errorf("skill:validate_test - Kind = %q, want %q", verr.Kind, kind)
	}
	if verr.Field != field {
		t.Errorf("skill:validate_test - Field = %q, want %q", verr.Field, field)
	}
	return verr
}

func TestValidate_DefaultsFilledInDeclarationOrder(t *testing.T) {
	params, err := Validate(testSpec(), map[string]any{})
	if err != nil {
		t.Fatalf("skill:validate_test - Validate returned error: %v", err)
	}

	wantNames := []string{"primitive_type", "size", "location"}
	names := params.Names()
	if len(names) != len(wantNames) {
		t.Fatalf("skill:validate_test - Names len = %d, want %d", len(names), len(wantNames))
	}
	for i, n := range wantNames {
		if names[i] != n {
			t.Errorf("skill:validate_test - Names[%d] = %q, want %q", i, names[i], n)
		}
	}

	if got := params.String("primitive_type"); got != "cube" {
		t.Errorf("skill:validate_test - primitive_type = %q, want %q", got, "cube")
	}
	if got := params.Float("size"); got != 2.0 {
		t.Errorf("skill:validate_test - size = %v, want 2.0", got)
	}
	// Optional param with no default stays absent rather than zero-filled.
	if _, ok := params.Get("name"); ok {
		t.Error("skill:validate_test - optional param without default was filled")
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	spec := &SkillSpec{
		Name: "extrude_faces",
		Params: []ParamSpec{
			{Name: "object_name", Type: TypeString, Required: true, NonEmpty: true},
			{Name: "face_indices", Type: TypeIntList, Required: true, NonEmpty: true},
		},
	}

	_, err := Validate(spec, map[string]any{"object_name": "Cube.001"})
	wantValidationError(t, err, KindMissingParameter, "face_indices")
}

func TestValidate_TypeMismatch(t *testing.T) {
	_, err := Validate(testSpec(), map[string]any{"size": "big"})
	wantValidationError(t, err, KindTypeMismatch, "size")

	_, err = Validate(testSpec(), map[string]any{"name": 42})
	wantValidationError(t, err, KindTypeMismatch, "name")
}

func TestValidate_OutOfRange(t *testing.T) {
	spec := &SkillSpec{
		Name: "create_pbr_material",
		Params: []ParamSpec{
			{Name: "metallic", Type: TypeFloat, Default: 0.0, Min: fptr(0), Max: fptr(1)},
		},
	}

	_, err := Validate(spec, map[string]any{"metallic": 1.5})
	wantValidationError(t, err, KindOutOfRange, "metallic")

	_, err = Validate(spec, map[string]any{"metallic": -0.1})
	wantValidationError(t, err, KindOutOfRange, "metallic")

	if _, err := Validate(spec, map[string]any{"metallic": 1.0}); err != nil {
		t.Errorf("skill:validate_test - inclusive bound rejected: %v", err)
	}
}

func TestValidate_ExclusiveMin(t *testing.T) {
	// size declares Min 0 exclusive: zero is rejected, anything above passes.
	_, err := Validate(testSpec(), map[string]any{"size": 0.0})
	wantValidationError(t, err, KindOutOfRange, "size")

	if _, err := Validate(testSpec(), map[string]any{"size": 0.01}); err != nil {
		t.Errorf("skill:validate_test - size just above exclusive min rejected: %v", err)
	}
}

func TestValidate_EnumValueOutsideSet(t *testing.T) {
	_, err := Validate(testSpec(), map[string]any{"primitive_type": "dodecahedron"})
	wantValidationError(t, err, KindOutOfRange, "primitive_type")
}

func TestValidate_EnumCanonicalizesCase(t *testing.T) {
	params, err := Validate(testSpec(), map[string]any{"primitive_type": "SPHERE"})
	if err != nil {
		t.Fatalf("skill:validate_test - Validate returned error: %v", err)
	}
	if got := params.String("primitive_type"); got != "sphere" {
		t.Errorf("skill:validate_test - primitive_type = %q, want canonical %q", got, "sphere")
	}
}

func TestValidate_Vec3Arity(t *testing.T) {
	_, err := Validate(testSpec(), map[string]any{"location": []any{1.0, 2.0}})
	wantValidationError(t, err, KindOutOfRange, "location")

	_, err = Validate(testSpec(), map[string]any{"location": []any{1.0, "two", 3.0}})
	wantValidationError(t, err, KindTypeMismatch, "location")

	params, err := Validate(testSpec(), map[string]any{"location": []any{1.0, 2.0, 3.0}})
	if err != nil {
		t.Fatalf("skill:validate_test - valid vec3 rejected: %v", err)
	}
	if got := params.Vec3("location"); got != [3]float64{1, 2, 3} {
		t.Errorf("skill:validate_test - location = %v, want [1 2 3]", got)
	}
}

func TestValidate_Vec3ComponentRange(t *testing.T) {
	spec := &SkillSpec{
		Name: "create_pbr_material",
		Params: []ParamSpec{
			{Name: "base_color", Type: TypeVec3, Default: [3]float64{0.8, 0.8, 0.8}, Min: fptr(0), Max: fptr(1)},
		},
	}

	_, err := Validate(spec, map[string]any{"base_color": []any{0.5, 1.2, 0.5}})
	wantValidationError(t, err, KindOutOfRange, "base_color")
}

func TestValidate_UnknownParameter(t *testing.T) {
	_, err := Validate(testSpec(), map[string]any{"colour": "red"})
	wantValidationError(t, err, KindUnknownParameter, "colour")
}

func TestValidate_UnknownParameterReportsSortedFirst(t *testing.T) {
	// Multiple unknown keys report the lexicographically first one, so the
	// error is stable across runs despite map iteration order.
	raw := map[string]any{"zz_extra": 1, "aa_extra": 2, "mm_extra": 3}
	for i := 0; i < 20; i++ {
		_, err := Validate(testSpec(), raw)
		verr := wantValidationError(t, err, KindUnknownParameter, "aa_extra")
		if verr.Field != "aa_extra" {
			break
		}
	}
}

func TestValidate_IntAcceptsIntegralFloat(t *testing.T) {
	spec := &SkillSpec{
		Name: "subdivide_surface",
		Params: []ParamSpec{
			{Name: "subdivision_level", Type: TypeInt, Default: 1, Min: fptr(1), Max: fptr(10)},
		},
	}

	// JSON decodes numbers as float64; an integral float is still an int.
	params, err := Validate(spec, map[string]any{"subdivision_level": 3.0})
	if err != nil {
		t.Fatalf("skill:validate_test - integral float rejected: %v", err)
	}
	if got := params.Int("subdivision_level"); got != 3 {
		t.Errorf("skill:validate_test - subdivision_level = %d, want 3", got)
	}

	_, err = Validate(spec, map[string]any{"subdivision_level": 2.5})
	wantValidationError(t, err, KindTypeMismatch, "subdivision_level")
}

func TestValidate_IntListCoercion(t *testing.T) {
	spec := &SkillSpec{
		Name: "extrude_faces",
		Params: []ParamSpec{
			{Name: "face_indices", Type: TypeIntList, Required: true, NonEmpty: true},
		},
	}

	params, err := Validate(spec, map[string]any{"face_indices": []any{0.0, 1.0, 4.0}})
	if err != nil {
		t.Fatalf("skill:validate_test - Validate returned error: %v", err)
	}
	got := params.IntList("face_indices")
	want := []int{0, 1, 4}
	if len(got) != len(want) {
		t.Fatalf("skill:validate_test - face_indices len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skill:validate_test - face_indices[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	_, err = Validate(spec, map[string]any{"face_indices": []any{}})
	wantValidationError(t, err, KindOutOfRange, "face_indices")

	_, err = Validate(spec, map[string]any{"face_indices": "0,1,4"})
	wantValidationError(t, err, KindTypeMismatch, "face_indices")
}

func TestValidate_NonEmptyString(t *testing.T) {
	spec := &SkillSpec{
		Name: "apply_mirror_modifier",
		Params: []ParamSpec{
			{Name: "object_name", Type: TypeString, Required: true, NonEmpty: true},
		},
	}

	_, err := Validate(spec, map[string]any{"object_name": "   "})
	wantValidationError(t, err, KindOutOfRange, "object_name")
}
