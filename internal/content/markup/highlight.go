package markup

import (
	"fmt"
	"strings"
)

type Density string

const (
	DensityNone   Density = "none"
	DensityLow    Density = "low"
	DensityMedium Density = "medium"
)

type Underline string

const (
	UnderlineSolid  Underline = "solid"
	UnderlineDotted Underline = "dotted"
	UnderlineDashed Underline = "dashed"
	UnderlineNone   Underline = "none"
)

type HighlightColor string

const (
	ColorRed    HighlightColor = "red"
	ColorOrange HighlightColor = "orange"
	ColorYellow HighlightColor = "yellow"
	ColorGreen  HighlightColor = "green"
	ColorBlue   HighlightColor = "blue"
	ColorPurple HighlightColor = "purple"
	ColorRandom HighlightColor = "random"
)

var palette = []HighlightColor{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple}

// HighlightSettings controls how glossary references are decorated in HTML output.
type HighlightSettings struct {
	Density   Density        `json:"density"`
	Underline Underline      `json:"underlineStyle"`
	Color     HighlightColor `json:"color"`
}

func DefaultHighlightSettings() HighlightSettings {
	return HighlightSettings{Density: DensityMedium, Underline: UnderlineSolid, Color: ColorRandom}
}

// ShouldHighlight decides by the reference's document index; low keeps every other one.
func (h HighlightSettings) ShouldHighlight(index int) bool {
	switch h.Density {
	case DensityNone:
		return false
	case DensityLow:
		return index%2 == 0
	default:
		return true
	}
}

// ColorFor is deterministic: "random" walks the palette by reference index.
func (h HighlightSettings) ColorFor(index int) HighlightColor {
	if h.Color != ColorRandom && h.Color != "" {
		return h.Color
	}
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}

// classes returns the CSS classes for the reference at index.
func (h HighlightSettings) classes(index int) string {
	if !h.ShouldHighlight(index) {
		return "glossary-term"
	}
	c := []string{"glossary-term", "highlight", "highlight-" + string(h.ColorFor(index))}
	if h.Underline != "" {
		c = append(c, "underline-"+string(h.Underline))
	}
	return strings.Join(c, " ")
}

// ParseHighlightSettings reads the three settings; empty values keep their defaults.
func ParseHighlightSettings(density, underline, color string) (HighlightSettings, error) {
	h := DefaultHighlightSettings()
	switch d := Density(strings.ToLower(strings.TrimSpace(density))); d {
	case "":
	case DensityNone, DensityLow, DensityMedium:
		h.Density = d
	default:
		return h, fmt.Errorf("unknown highlight density %q", density)
	}
	switch u := Underline(strings.ToLower(strings.TrimSpace(underline))); u {
	case "":
	case UnderlineSolid, UnderlineDotted, UnderlineDashed, UnderlineNone:
		h.Underline = u
	default:
		return h, fmt.Errorf("unknown underline style %q", underline)
	}
	switch c := HighlightColor(strings.ToLower(strings.TrimSpace(color))); c {
	case "":
	case ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorRandom:
		h.Color = c
	default:
		return h, fmt.Errorf("unknown highlight color %q", color)
	}
	return h, nil
}
