package normalize

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \n\t\n  ",
			expected: "",
		},
		{
			name:     "page furniture removed",
			input:    "Revenue grew.\nPage 3 of 12\nMargins held.",
			expected: "Revenue grew.\nMargins held.",
		},
		{
			name:     "page furniture case-insensitive",
			input:    "Revenue grew. PAGE 3 OF 12 Margins held.",
			expected: "Revenue grew. Margins held.",
		},
		{
			name:     "bare page number removed",
			input:    "Revenue grew.\npage 7\nMargins held.",
			expected: "Revenue grew.\nMargins held.",
		},
		{
			name:     "all-caps header line removed",
			input:    "ANNUAL REPORT\nRevenue grew 20% in fiscal 2024.",
			expected: "Revenue grew 20% in fiscal 2024.",
		},
		{
			name:     "mixed-case line kept",
			input:    "Annual Report\nRevenue grew.",
			expected: "Annual Report\nRevenue grew.",
		},
		{
			name:     "caps line with digits kept",
			input:    "SECTION 2\nRevenue grew.",
			expected: "SECTION 2\nRevenue grew.",
		},
		{
			name:     "whitespace runs collapsed",
			input:    "Revenue   grew \t 20%.",
			expected: "Revenue grew 20%.",
		},
		{
			name:     "newline runs collapsed",
			input:    "Revenue grew.\n\n\n\nMargins held.",
			expected: "Revenue grew.\nMargins held.",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  Revenue grew.  ",
			expected: "Revenue grew.",
		},
		{
			name:     "all furniture yields empty string",
			input:    "HEADER\nPage 1 of 2\nFOOTER",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Revenue grew 20%.",
		"ANNUAL REPORT\nRevenue   grew.\n\n\nPage 1 of 9\nMargins held.",
		"  Revenue\tgrew.  \n\nMargins held.\n",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestIsUppercaseFurniture(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"all caps", "CONSOLIDATED STATEMENTS", true},
		{"caps with spaces", "  RISK FACTORS  ", true},
		{"mixed case", "Risk Factors", false},
		{"caps with digits", "SECTION 2", false},
		{"caps with punctuation", "RISKS:", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isUppercaseFurniture(tt.line)
			if got != tt.expected {
				t.Errorf("isUppercaseFurniture(%q) = %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}
