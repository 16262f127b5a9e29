package markup

import "testing"

func TestShouldHighlight(t *testing.T) {
	cases := []struct {
		density Density
		index   int
		want    bool
	}{
		{DensityNone, 0, false},
		{DensityNone, 1, false},
		{DensityMedium, 3, true},
		{DensityLow, 0, true},
		{DensityLow, 1, false},
		{DensityLow, 4, true},
	}
	for _, tc := range cases {
		h := HighlightSettings{Density: tc.density}
		if got := h.ShouldHighlight(tc.index); got != tc.want {
			t.Fatalf("%s/%d = %v, want %v", tc.density, tc.index, got, tc.want)
		}
	}
}

func TestColorForIsDeterministic(t *testing.T) {
	h := HighlightSettings{Color: ColorRandom}
	if h.ColorFor(0) != ColorRed || h.ColorFor(5) != ColorPurple || h.ColorFor(6) != ColorRed {
		t.Fatalf("unexpected palette walk")
	}
	if h.ColorFor(7) != h.ColorFor(7) {
		t.Fatalf("color must be stable")
	}
	fixed := HighlightSettings{Color: ColorGreen}
	if fixed.ColorFor(3) != ColorGreen {
		t.Fatalf("fixed color ignored")
	}
}

func TestParseHighlightSettings(t *testing.T) {
	h, err := ParseHighlightSettings("low", "", "Purple")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h.Density != DensityLow || h.Underline != UnderlineSolid || h.Color != ColorPurple {
		t.Fatalf("settings = %#v", h)
	}
	if _, err := ParseHighlightSettings("high", "", ""); err == nil {
		t.Fatalf("expected error for unknown density")
	}
	if _, err := ParseHighlightSettings("", "wavy", ""); err == nil {
		t.Fatalf("expected error for unknown underline")
	}
	if _, err := ParseHighlightSettings("", "", "pink"); err == nil {
		t.Fatalf("expected error for unknown color")
	}
}

func TestHighlightClasses(t *testing.T) {
	h := HighlightSettings{Density: DensityLow, Underline: UnderlineNone, Color: ColorRandom}
	if got := h.classes(1); got != "glossary-term" {
		t.Fatalf("classes(1) = %q", got)
	}
	if got := h.classes(2); got != "glossary-term highlight highlight-yellow underline-none" {
		t.Fatalf("classes(2) = %q", got)
	}
}
