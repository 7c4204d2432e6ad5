package utils

import "testing"

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"lowercases", "TL1@Example.COM", "tl1@example.com", false},
		{"trims spaces", "  admin1@example.com ", "admin1@example.com", false},
		{"plain", "superadmin1@example.com", "superadmin1@example.com", false},
		{"missing at", "tl1example.com", "", true},
		{"missing domain", "tl1@", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeEmail(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeEmail(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"digits", "1234567890", "1234567890", false},
		{"formatted", "(123) 456-7890", "1234567890", false},
		{"international", "+11234567890", "+11234567890", false},
		{"too short", "12345", "", true},
		{"too long", "1234567890123456", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePhone(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizePhone(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  Team Lead 1  "); got != "Team Lead 1" {
		t.Errorf("SanitizeInput() = %q, want trimmed", got)
	}
	if got := SanitizeInput("<b>name</b>"); got == "<b>name</b>" {
		t.Error("SanitizeInput() should escape HTML")
	}
	if got := SanitizeInput("name\x00\x1f"); got != "name" {
		t.Errorf("SanitizeInput() = %q, want control characters stripped", got)
	}
}
