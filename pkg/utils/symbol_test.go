package utils

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{"  msft  ", "MSFT"},
		{"TSLA.US", "TSLA"},
		{"bp.l", "BP"},
		{"GOOGL", "GOOGL"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompanyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AAPL", "Apple"},
		{"aapl.us", "Apple"},
		{"NVDA", "NVIDIA"},
		{"ZZZZ", "ZZZZ"}, // unknown ticker falls back to itself
	}
	for _, tt := range tests {
		if got := CompanyName(tt.in); got != tt.want {
			t.Errorf("CompanyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
