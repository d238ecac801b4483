package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Turbin & Kompresor!",
			expected: "turbin-kompresor",
		},
		{
			name:     "with numbers",
			input:    "Boeing 737",
			expected: "boeing-737",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with leading and trailing hyphens",
			input:    "-Hello World-",
			expected: "hello-world",
		},
		{
			name:     "cjk transliteration",
			input:    "東京",
			expected: "dong-jing",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugifyWithFallback(t *testing.T) {
	if got := SlugifyWithFallback("fallback", "", "Hello World"); got != "hello-world" {
		t.Errorf("got %q, want hello-world", got)
	}
	if got := SlugifyWithFallback("fallback", "!!!", "???"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
	if got := SlugifyWithFallback("fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "a1-b2"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "-hello", "hello-", "hello--world", "Hello", "hello world", "héllo"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
