package render

import (
	"image/color"
	"strings"
)

type Theme struct {
	Name  string
	Light color.NRGBA
	Dark  color.NRGBA
	Frame color.NRGBA
	Label color.NRGBA
	// Piece palette; Accent colors the unicorn horn and is empty for classic sets.
	WhiteFill   string
	WhiteStroke string
	BlackFill   string
	BlackStroke string
	Accent      string
	TargetDot   color.NRGBA
}

var (
	UnicornTheme = Theme{
		Name:        "unicorn",
		Light:       color.NRGBA{R: 0xff, G: 0xe4, B: 0xf3, A: 0xff},
		Dark:        color.NRGBA{R: 0xc9, G: 0xa0, B: 0xdc, A: 0xff},
		Frame:       color.NRGBA{R: 0xfb, G: 0xf0, B: 0xff, A: 0xff},
		Label:       color.NRGBA{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
		WhiteFill:   "#fff7fc",
		WhiteStroke: "#8e44ad",
		BlackFill:   "#7b2d8e",
		BlackStroke: "#2d0b3a",
		Accent:      "#ffd700",
		TargetDot:   color.NRGBA{R: 255, G: 107, B: 157, A: 178},
	}
	ClassicTheme = Theme{
		Name:        "classic",
		Light:       color.NRGBA{R: 0xf0, G: 0xd9, B: 0xb5, A: 0xff},
		Dark:        color.NRGBA{R: 0xb5, G: 0x88, B: 0x63, A: 0xff},
		Frame:       color.NRGBA{R: 0x30, G: 0x2e, B: 0x2b, A: 0xff},
		Label:       color.NRGBA{R: 0xf0, G: 0xd9, B: 0xb5, A: 0xff},
		WhiteFill:   "#ffffff",
		WhiteStroke: "#000000",
		BlackFill:   "#222222",
		BlackStroke: "#000000",
		TargetDot:   color.NRGBA{R: 100, G: 200, B: 100, A: 178},
	}
)

// ThemeByName falls back to the unicorn theme for unknown names.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "classic":
		return ClassicTheme
	default:
		return UnicornTheme
	}
}

type HighlightKind string

const (
	HighlightLast   HighlightKind = "last"
	HighlightHint   HighlightKind = "hint"
	HighlightSelect HighlightKind = "select"
	HighlightTarget HighlightKind = "target"
	HighlightDanger HighlightKind = "danger"
	HighlightGoal   HighlightKind = "goal"
	HighlightCenter HighlightKind = "center"
	HighlightBlue   HighlightKind = "blue"
	HighlightPurple HighlightKind = "purple"
	HighlightPink   HighlightKind = "pink"
)

var highlightFills = map[HighlightKind]color.NRGBA{
	HighlightLast:   {R: 255, G: 228, B: 120, A: 140},
	HighlightHint:   {R: 255, G: 190, B: 60, A: 150},
	HighlightSelect: {R: 255, G: 215, B: 0, A: 153},
	HighlightDanger: {R: 255, G: 0, B: 0, A: 153},
	HighlightGoal:   {R: 0, G: 255, B: 0, A: 128},
	HighlightCenter: {R: 255, G: 215, B: 0, A: 77},
	HighlightBlue:   {R: 100, G: 200, B: 255, A: 128},
	HighlightPurple: {R: 200, G: 100, B: 255, A: 128},
	HighlightPink:   {R: 255, G: 100, B: 150, A: 128},
}

var hintArrowColor = color.NRGBA{R: 255, G: 140, B: 0, A: 190}

func (k HighlightKind) Valid() bool {
	if k == HighlightTarget {
		return true
	}
	_, ok := highlightFills[k]
	return ok
}

type Highlight struct {
	Square string        `json:"square"`
	Kind   HighlightKind `json:"kind"`
}

type Arrow struct {
	From string `json:"from"`
	To   string `json:"to"`
}
