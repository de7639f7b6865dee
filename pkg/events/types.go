// Package events defines event types and publisher interfaces for dispatch events.
package events

// DispatchedEvent is emitted after every dispatch, success or error.
type DispatchedEvent struct {
	ID            string  `json:"id,omitempty"`
	Command       string  `json:"command"`
	Skill         string  `json:"skill,omitempty"`
	Category      string  `json:"category,omitempty"`
	Status        string  `json:"status"`
	Confidence    float64 `json:"confidence"`
	ErrorKind     string  `json:"errorKind,omitempty"`
	ExecutionTime float64 `json:"executionTime"`
	Timestamp     string  `json:"timestamp"`
}
