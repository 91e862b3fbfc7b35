package datemath

import (
	"errors"
	"testing"
	"time"
)

func TestParseRelativeWords(t *testing.T) {
	p := NewParser(time.UTC)
	// Wednesday
	base := time.Date(2026, 1, 28, 15, 4, 5, 0, time.UTC)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"today", time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)},
		{"", time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)},
		{"  Tomorrow ", time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)},
		{"in 3 days", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"in  2   weeks", time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)},
		{"in 1 month", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"2 days ago", time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)},
		{"next wednesday", time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)},
		{"next friday", time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)},
		{"29-2-2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := p.Parse(tc.in, base)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsUnknownText(t *testing.T) {
	p := NewParser(time.UTC)
	base := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"someday", "next month", "in three days", "in 2 years", "31-4-2021", "next funday"} {
		if _, err := p.Parse(in, base); !errors.Is(err, ErrUnrecognized) {
			t.Fatalf("Parse(%q): expected ErrUnrecognized, got %v", in, err)
		}
	}
}

func TestParseUsesParserLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	p := NewParser(loc)
	// 20:00 UTC is already the next day at +10.
	base := time.Date(2026, 1, 28, 20, 0, 0, 0, time.UTC)
	got, err := p.Parse("today", base)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Day() != 29 || got.Location() != loc {
		t.Fatalf("unexpected day: %v", got)
	}
}
