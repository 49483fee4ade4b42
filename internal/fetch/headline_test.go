package fetch

import (
	"strings"
	"testing"
)

func TestExtractHeadline(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og title wins",
			html: `<html><head><title>Site | Story</title><meta property="og:title" content="Story headline"></head><body><h1>Other</h1></body></html>`,
			want: "Story headline",
		},
		{
			name: "title before h1",
			html: `<html><head><title>  Senate
				approves budget </title></head><body><h1>Budget</h1></body></html>`,
			want: "Senate approves budget",
		},
		{
			name: "h1 fallback with nested markup",
			html: `<html><body><h1>Miracle <em>cure</em> found</h1><h1>Second</h1></body></html>`,
			want: "Miracle cure found",
		},
		{
			name: "entities decoded",
			html: `<title>Fish &amp; chips</title>`,
			want: "Fish & chips",
		},
		{
			name: "nothing",
			html: `<html><body><p>No headline here</p></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractHeadline(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("ExtractHeadline failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractHeadline() = %q, want %q", got, tt.want)
			}
		})
	}
}
