package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{"format key", "format:json:9f86d081884c7d659a2feaa0c55ad015", ""},
		{"search key", "search:9f86d081884c7d659a2feaa0c55ad015", ""},
		{"max length exactly", strings.Repeat("x", MaxKeyLength), ""},
		{"empty", "", "blank"},
		{"whitespace only", " \t ", "blank"},
		{"too long", strings.Repeat("x", MaxKeyLength+1), "513 bytes exceeds 512"},
		{"raw yaml input", "format:yaml:a: 1\nb: 2", "line break"},
		{"carriage return", "key\rvalue", "line break"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateKey() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("ValidateKey() = %v, want ErrInvalidKey", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateKey() = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
