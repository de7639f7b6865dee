// Package dispatch runs the skill pipeline for one command: pattern match,
// parameter validation, timed execution, and a uniform response envelope.
package dispatch

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error kinds beyond the validation kinds defined in pkg/skill.
const (
	KindNoMatchingSkill = "NoMatchingSkill"
	KindUnknownSkill    = "UnknownSkill"
	KindEngineError     = "EngineError"
	KindTimeout         = "Timeout"
)

// Envelope is the uniform result of every dispatch. The field set and names
// are a wire contract with downstream consumers and must not drift.
// execution_time is seconds, always present and non-negative; data is an
// empty mapping (never null) on error.
type Envelope struct {
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	Data          map[string]any `json:"data"`
	ExecutionTime float64        `json:"execution_time"`
	Error         *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail identifies what failed: the error kind plus the failing
// parameter (validation kinds) or operation (engine kinds).
type ErrorDetail struct {
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// errorEnvelope builds an error envelope with an empty data mapping.
func errorEnvelope(message, kind, field string, elapsed float64) *Envelope {
	return &Envelope{
		Status:        StatusError,
		Message:       message,
		Data:          map[string]any{},
		ExecutionTime: elapsed,
		Error:         &ErrorDetail{Kind: kind, Field: field},
	}
}

// CommandRequest is the JSON envelope for commands arriving over a transport.
type CommandRequest struct {
	ID      string `json:"id,omitempty"`
	Command string `json:"command"`
	// TimeoutMs optionally tightens the server's request deadline.
	TimeoutMs int `json:"timeoutMs,omitempty"`
}

// CommandResponse is the transport reply: the response envelope plus
// correlation and match metadata for the calling backend.
type CommandResponse struct {
	ID         string  `json:"id,omitempty"`
	Skill      string  `json:"skill,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Envelope
}
