package commsutil

import (
	"testing"
)

func TestEncodePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{
			name:  "command request shape",
			input: map[string]interface{}{"command": "create a cube"},
			want:  `{"command":"create a cube"}`,
		},
		{
			name:  "struct",
			input: struct{ Status string }{Status: "success"},
			want:  `{"Status":"success"}`,
		},
		{
			name:  "nil",
			input: nil,
			want:  "null",
		},
		{
			name:    "channel is not serializable",
			input:   make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePayload(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("EncodePayload(%v) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodePayload(%v) returned error: %v", tt.input, err)
			}
			if string(data) != tt.want {
				t.Errorf("EncodePayload(%v) = %s, want %s", tt.input, data, tt.want)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	var decoded struct {
		Command   string `json:"command"`
		TimeoutMs int    `json:"timeoutMs"`
	}
	err := DecodePayload([]byte(`{"command":"apply subdivision","timeoutMs":500}`), &decoded)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if decoded.Command != "apply subdivision" {
		t.Errorf("Command = %q, want %q", decoded.Command, "apply subdivision")
	}
	if decoded.TimeoutMs != 500 {
		t.Errorf("TimeoutMs = %d, want 500", decoded.TimeoutMs)
	}

	if err := DecodePayload([]byte(`not json`), &decoded); err == nil {
		t.Error("DecodePayload accepted invalid JSON")
	}
}
