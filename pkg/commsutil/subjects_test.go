package commsutil

import "testing"

func TestBuildCategorySubject(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{"modeling", "modeling", "skills.dispatched.modeling"},
		{"shading", "shading", "skills.dispatched.shading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCategorySubject(tt.category)
			if got != tt.want {
				t.Errorf("BuildCategorySubject(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestDefaultSubjects(t *testing.T) {
	if SubjectDispatch != "nexus.skills.dispatch.v1" {
		t.Errorf("SubjectDispatch = %q, want nexus.skills.dispatch.v1", SubjectDispatch)
	}
	if SubjectDispatched != "skills.dispatched" {
		t.Errorf("SubjectDispatched = %q, want skills.dispatched", SubjectDispatched)
	}
}
