package model

import "testing"

func TestFromLabelResolvesBuckets(t *testing.T) {
	cases := map[string]TimeOfDay{
		"morning":   Morning,
		"MORNING":   Morning,
		"Noon":      Noon,
		"afternoon": AfterNoon,
		"AfterNoon": AfterNoon,
		"evening":   Evening,
		"night":     Night,
		"MidNight":  MidNight,
	}
	for in, want := range cases {
		if got := FromLabel(in); got != want {
			t.Fatalf("FromLabel(%q) = %q, want %q", in, got, want)
		}
		if FromLabel(in).IsCustom() {
			t.Fatalf("FromLabel(%q) reported custom", in)
		}
	}
}

func TestFromLabelUnknownBecomesCustom(t *testing.T) {
	for _, in := range []string{"after lunch", "Mornings", "", "teatime", "12"} {
		got := FromLabel(in)
		if !got.IsCustom() {
			t.Fatalf("FromLabel(%q) = %q, expected custom", in, got)
		}
		if string(got) != in {
			t.Fatalf("custom label must keep original text: got %q want %q", got, in)
		}
	}
}

func TestTimeOfDaySpanTable(t *testing.T) {
	cases := []struct {
		tod    TimeOfDay
		start  Clock
		end    Clock
		ranged bool
	}{
		{Morning, NewClock(6, 0, 0), NewClock(11, 59, 59), true},
		{Noon, NewClock(12, 0, 0), NewClock(12, 0, 0), false},
		{AfterNoon, NewClock(12, 0, 1), NewClock(17, 0, 0), true},
		{Evening, NewClock(17, 0, 1), NewClock(20, 0, 0), true},
		{Night, NewClock(20, 0, 1), NewClock(23, 59, 59), true},
		{MidNight, NewClock(0, 0, 0), NewClock(0, 0, 0), false},
	}
	for _, tc := range cases {
		span, ok := tc.tod.Span()
		if !ok {
			t.Fatalf("%s: expected a span", tc.tod)
		}
		if span.Start != tc.start || span.End != tc.end || span.Ranged != tc.ranged {
			t.Fatalf("%s: got %+v", tc.tod, span)
		}
	}
	if _, ok := TimeOfDay("teatime").Span(); ok {
		t.Fatal("custom label must not resolve to a span")
	}
}

func TestClockParts(t *testing.T) {
	c := NewClock(23, 59, 58)
	if c.Hour() != 23 || c.Minute() != 59 || c.Second() != 58 {
		t.Fatalf("unexpected clock parts: %d %d %d", c.Hour(), c.Minute(), c.Second())
	}
	if c.String() != "23:59:58" {
		t.Fatalf("unexpected clock string: %s", c)
	}
}
