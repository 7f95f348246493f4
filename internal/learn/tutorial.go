package learn

import (
	"fmt"

	"github.com/park285/unicorn-chess/internal/render"
)

type Step struct {
	Index      int                `json:"index"`
	Total      int                `json:"total"`
	Key        string             `json:"key"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	FEN        string             `json:"fen"`
	Highlights []render.Highlight `json:"highlights"`
	First      bool               `json:"first"`
	Last       bool               `json:"last"`
}

type stepDef struct {
	key        string
	fen        string
	highlights []render.Highlight
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func hl(square string, kind render.HighlightKind) render.Highlight {
	return render.Highlight{Square: square, Kind: kind}
}

var tutorialSteps = []stepDef{
	{key: "welcome", fen: startFEN},
	{key: "goal", fen: startFEN, highlights: []render.Highlight{
		hl("e1", render.HighlightGoal),
		hl("e8", render.HighlightDanger),
	}},
	{key: "setup", fen: "8/8/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", highlights: []render.Highlight{
		hl("a1", render.HighlightSelect),
		hl("h1", render.HighlightSelect),
		hl("b1", render.HighlightBlue),
		hl("g1", render.HighlightBlue),
		hl("c1", render.HighlightPurple),
		hl("f1", render.HighlightPurple),
		hl("d1", render.HighlightPink),
		hl("e1", render.HighlightGoal),
	}},
	{key: "first_move", fen: startFEN, highlights: []render.Highlight{
		hl("e2", render.HighlightSelect),
		hl("e3", render.HighlightTarget),
		hl("e4", render.HighlightTarget),
	}},
	{key: "capturing", fen: "8/8/8/3p4/4P3/8/8/8 w - - 0 1", highlights: []render.Highlight{
		hl("e4", render.HighlightSelect),
		hl("d5", render.HighlightDanger),
		hl("e5", render.HighlightTarget),
	}},
	{key: "check", fen: "4k3/8/8/8/8/8/4R3/4K3 w - - 0 1", highlights: []render.Highlight{
		hl("e2", render.HighlightSelect),
		hl("e8", render.HighlightDanger),
	}},
	{key: "checkmate", fen: "6k1/5ppp/8/8/8/8/4R3/4R1K1 w - - 0 1", highlights: []render.Highlight{
		hl("e1", render.HighlightSelect),
		hl("e2", render.HighlightSelect),
		hl("g8", render.HighlightDanger),
	}},
	{key: "tips", fen: "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1", highlights: []render.Highlight{
		hl("d4", render.HighlightCenter),
		hl("d5", render.HighlightCenter),
		hl("e4", render.HighlightCenter),
		hl("e5", render.HighlightCenter),
	}},
	{key: "ready", fen: startFEN},
}

func StepCount() int { return len(tutorialSteps) }

// ClampStep keeps i inside the tutorial, so Next on the last step and Prev on the first stay put.
func ClampStep(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(tutorialSteps) {
		return len(tutorialSteps) - 1
	}
	return i
}

func (l *Library) Steps(locale string) []Step {
	out := make([]Step, 0, len(tutorialSteps))
	for i := range tutorialSteps {
		out = append(out, l.step(locale, i))
	}
	return out
}

// Step returns step i; out of range indexes are an error.
func (l *Library) Step(locale string, i int) (Step, error) {
	if i < 0 || i >= len(tutorialSteps) {
		return Step{}, fmt.Errorf("%w: %d", ErrUnknownStep, i)
	}
	return l.step(locale, i), nil
}

func (l *Library) Next(locale string, i int) Step {
	return l.step(locale, ClampStep(i+1))
}

func (l *Library) Prev(locale string, i int) Step {
	return l.step(locale, ClampStep(i-1))
}

func (l *Library) step(locale string, i int) Step {
	def := tutorialSteps[i]
	prefix := "tutorial." + def.key + "."
	return Step{
		Index:      i,
		Total:      len(tutorialSteps),
		Key:        def.key,
		Title:      l.cat.Text(locale, prefix+"title"),
		Content:    l.cat.Text(locale, prefix+"content"),
		FEN:        def.fen,
		Highlights: append([]render.Highlight(nil), def.highlights...),
		First:      i == 0,
		Last:       i == len(tutorialSteps)-1,
	}
}
