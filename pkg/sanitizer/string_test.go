package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Ada Lovelace", "Ada Lovelace"},
		{"surrounding whitespace", "  Ada Lovelace  ", "Ada Lovelace"},
		{"internal runs collapse", "Ada \t  Lovelace", "Ada Lovelace"},
		{"newlines collapse", "late\ncheckout\nrequested", "late checkout requested"},
		{"control characters dropped", "Ada\x00\x1fLovelace", "AdaLovelace"},
		{"only whitespace", " \t\n ", ""},
		{"unicode preserved", "José Müller", "José Müller"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
