package middleware

import (
	"net/http"
	"strings"
	"testing"
)

func TestRedactor_Scrub(t *testing.T) {
	r := NewRedactor()
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"q=1+Nephi+3:7", "q=1+Nephi+3:7"},
		{"to=bob@example.com", "to=[REDACTED:email]"},
		{"call 212-555-1212 now", "call [REDACTED:phone] now"},
		{"chat=123e4567-e89b-12d3-a456-426614174000", "chat=[REDACTED:id]"},
	}
	for _, tc := range cases {
		if got := r.Scrub(tc.in); got != tc.want {
			t.Errorf("Scrub(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactor_Headers(t *testing.T) {
	r := NewRedactor(" x-api-key ", "")
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("X-Api-Key", "k")
	h.Add("Accept", "application/json")
	h.Add("From", "ann@example.org")

	got := r.Headers(h)
	if got["Authorization"] != "[REDACTED]" || got["X-Api-Key"] != "[REDACTED]" {
		t.Fatalf("masked headers leaked: %v", got)
	}
	if got["Accept"] != "application/json" {
		t.Fatalf("Accept = %q", got["Accept"])
	}
	if strings.Contains(got["From"], "ann@") {
		t.Fatalf("From not scrubbed: %q", got["From"])
	}
}
