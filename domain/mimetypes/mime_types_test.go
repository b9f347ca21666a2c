package mimetypes

import (
	"testing"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain, true},
		{"JSON", "application/json", ApplicationJSON, true},
		{"JSON with charset", "application/json; charset=utf-8", ApplicationJSON, true},
		{"PDF", "application/pdf", ApplicationPDF, true},
		{"PNG", "image/png", ImagePNG, true},

		// Fallback / mismatch
		{"Mismatch", "text/plain; charset=utf-8", ApplicationJSON, false},
		{"Unknown type", "application/octet-stream", TextPlain, false},
		{"Invalid MIME", "not a mime", TextPlain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			if ok != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.detected, tt.expected, ok, tt.want)
			}
		})
	}
}

func TestIsDenied(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		want     bool
	}{
		{"ELF binary", "application/x-elf", true},
		{"Linux executable", "application/x-executable", true},
		{"Windows executable", "application/x-msdownload", true},
		{"macOS binary", "application/x-mach-binary", true},
		{"PDF is allowed", "application/pdf", false},
		{"PNG is allowed", "image/png", false},
		{"Invalid MIME is not denied here", "not a mime", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDenied(tt.detected); got != tt.want {
				t.Errorf("IsDenied(%q) = %v, want %v", tt.detected, got, tt.want)
			}
		})
	}
}
