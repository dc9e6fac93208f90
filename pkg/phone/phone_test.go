package phone

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name, raw, want string
	}{
		{"national mobile", "0991234567", "+593991234567"},
		{"already international", "+593 99 123 4567", "+593991234567"},
		{"empty stays empty", "  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw, "ec")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"123", "not a phone"} {
		if _, err := Normalize(raw, "EC"); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("%q: expected ErrInvalidPhone, got %v", raw, err)
		}
	}
}
