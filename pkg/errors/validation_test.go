package errors

import (
	"strings"
	"testing"
)

func TestValidateInspectionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "site-42", false},
		{"with spaces", "north wing audit", false},
		{"unicode", "prüfung-β", false},
		{"max length", strings.Repeat("a", 128), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "..secret", true},
		{"control char", "bad\x00name", true},
		{"newline", "bad\nname", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInspectionName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInspectionName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("expected INVALID_NAME code, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateFieldName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default field", "elements", false},
		{"with dot", "model.elements", false},
		{"unicode", "éléments", false},
		{"empty", "", true},
		{"control char", "bad\tfield", true},
		{"too long", strings.Repeat("f", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
