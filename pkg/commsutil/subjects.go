package commsutil

import "fmt"

// Default COMMS subjects.
const (
	// SubjectDispatch receives command requests and replies with envelopes.
	SubjectDispatch = "nexus.skills.dispatch.v1"
	// SubjectDispatched carries dispatch events for every processed command.
	SubjectDispatched = "skills.dispatched"
)

// BuildCategorySubject builds a per-category dispatch event subject.
func BuildCategorySubject(category string) string {
	return fmt.Sprintf("skills.dispatched.%s", category)
}
