package validation

import "testing"

func TestIsUUID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid lowercase", "0d4a8f0e-2b7c-4a6d-9e1f-3c5b7a9d1e2f", true},
		{"valid uppercase", "0D4A8F0E-2B7C-4A6D-9E1F-3C5B7A9D1E2F", true},
		{"empty", "", false},
		{"short code", "TABLE_42", false},
		{"missing group", "0d4a8f0e-2b7c-4a6d-9e1f", false},
		{"non hex", "0d4a8f0g-2b7c-4a6d-9e1f-3c5b7a9d1e2f", false},
		{"surrounding space", " 0d4a8f0e-2b7c-4a6d-9e1f-3c5b7a9d1e2f", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUUID(tt.in); got != tt.want {
				t.Errorf("IsUUID(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
