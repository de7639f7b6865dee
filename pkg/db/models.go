package db

import "time"

// DispatchRecord represents a row in the dispatches audit table.
type DispatchRecord struct {
	ID            string    `json:"id"`
	Command       string    `json:"command"`
	Skill         *string   `json:"skill,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Status        string    `json:"status"`
	Confidence    float64   `json:"confidence"`
	ErrorKind     *string   `json:"error_kind,omitempty"`
	ErrorField    *string   `json:"error_field,omitempty"`
	Message       string    `json:"message"`
	ExecutionTime float64   `json:"execution_time"`
	Created       time.Time `json:"created"`
}

// StatusCounts summarizes the audit log by envelope status.
type StatusCounts struct {
	Success int `json:"success"`
	Error   int `json:"error"`
}
