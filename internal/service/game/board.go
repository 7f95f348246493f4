package game

import (
	"context"
	"strings"

	"github.com/park285/unicorn-chess/internal/render"
)

type BoardOptions struct {
	Theme    string
	Flip     bool
	ShowHint bool
	// Selected marks one of the player's pieces and its legal destinations.
	Selected string
}

// Board renders the game as PNG with last move, check, hint and selection marks.
func (s *Service) Board(ctx context.Context, id string, opts BoardOptions) ([]byte, error) {
	p, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	pos, err := replay(p)
	if err != nil {
		return nil, err
	}

	ropts := render.Options{Theme: render.ThemeByName(opts.Theme), Flip: opts.Flip}
	if from, to, ok := pos.LastMove(); ok {
		ropts.Highlights = append(ropts.Highlights,
			render.Highlight{Square: from, Kind: render.HighlightLast},
			render.Highlight{Square: to, Kind: render.HighlightLast},
		)
	}
	if pos.IsCheck() {
		if sq := pos.KingSquare(pos.SideToMove()); sq != "" {
			ropts.Highlights = append(ropts.Highlights, render.Highlight{Square: sq, Kind: render.HighlightDanger})
		}
	}
	if opts.ShowHint && p.HintFrom != "" && p.HintTo != "" {
		ropts.Highlights = append(ropts.Highlights,
			render.Highlight{Square: p.HintFrom, Kind: render.HighlightHint},
			render.Highlight{Square: p.HintTo, Kind: render.HighlightHint},
		)
		ropts.Arrow = &render.Arrow{From: p.HintFrom, To: p.HintTo}
	}
	if sel := strings.ToLower(strings.TrimSpace(opts.Selected)); sel != "" && !p.Status.Finished() {
		selection, err := s.SelectSquare(ctx, id, sel)
		if err != nil {
			return nil, err
		}
		ropts.Highlights = append(ropts.Highlights, render.Highlight{Square: selection.Square, Kind: render.HighlightSelect})
		for _, t := range selection.Targets {
			ropts.Highlights = append(ropts.Highlights, render.Highlight{Square: t, Kind: render.HighlightTarget})
		}
	}
	return s.renderer.RenderPNG(ctx, pos.Board(), ropts)
}
