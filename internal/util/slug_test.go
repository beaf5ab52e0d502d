package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Customer Feedback 2026", "customer-feedback-2026"},
		{"  IQ Test!!  ", "iq-test"},
		{"already-a-slug", "already-a-slug"},
		{"___", ""},
		{"Mixed   CASE & symbols?", "mixed-case-symbols"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
