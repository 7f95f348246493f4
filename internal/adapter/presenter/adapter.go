package presenter

import (
	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/learn"
	"github.com/park285/unicorn-chess/internal/msgcat"
	"github.com/park285/unicorn-chess/internal/render"
	"github.com/park285/unicorn-chess/internal/service/game"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

func ToDTOState(s *game.State) *gamedto.GameState {
	if s == nil {
		return nil
	}
	out := &gamedto.GameState{
		ID:              s.ID,
		Difficulty:      s.Difficulty.String(),
		DifficultyLabel: s.DifficultyLabel,
		Locale:          s.Locale,
		FEN:             s.FEN,
		Turn:            colorName(s.Turn),
		MovesUCI:        append([]string{}, s.Moves...),
		MovesSAN:        append([]string{}, s.MovesSAN...),
		Status:          string(s.Status),
		Message:         s.Message,
		Sound:           string(s.Sound),
		InCheck:         s.InCheck,
		CheckSquare:     s.CheckSquare,
		DrawReason:      s.DrawReason,
		Opening:         s.OpeningTitle,
		OpeningCode:     s.OpeningCode,
		ComputerPending: s.ComputerPending,
		Captured: gamedto.Captured{
			ByPlayer:   append([]string{}, s.Captured.ByPlayer...),
			ByComputer: append([]string{}, s.Captured.ByComputer...),
			Material:   s.Captured.Material,
		},
		StartedAt: s.StartedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.LastMove != nil {
		out.LastMove = &gamedto.Move{From: s.LastMove.From, To: s.LastMove.To}
	}
	if s.Hint != nil {
		out.Hint = &gamedto.Move{From: s.Hint.From, To: s.Hint.To}
	}
	if s.ComputerPending && !s.ComputerDueAt.IsZero() {
		due := s.ComputerDueAt
		out.ComputerDueAt = &due
	}
	return out
}

func ToDTOMove(m *game.MoveResult) *gamedto.MoveSummary {
	if m == nil {
		return nil
	}
	out := &gamedto.MoveSummary{
		State: ToDTOState(m.State),
		By:    colorName(m.By),
		Moved: m.Moved,
	}
	if m.Moved {
		out.SAN = m.Move.SAN
		out.UCI = m.Move.UCI
		out.From = m.Move.From
		out.To = m.Move.To
		out.Captured = m.Move.Captured
		out.Check = m.Move.Check
		out.Mate = m.Move.Mate
	}
	if m.State != nil {
		out.Finished = m.State.Status.Finished()
	}
	return out
}

func ToDTOHint(h *game.HintResult) *gamedto.Hint {
	if h == nil {
		return nil
	}
	out := &gamedto.Hint{State: ToDTOState(h.State), Found: h.Found}
	if h.Found {
		out.From, out.To, out.SAN = h.Hint.From, h.Hint.To, h.Hint.SAN
	}
	return out
}

func ToDTOSelection(s *game.Selection) *gamedto.Selection {
	if s == nil {
		return nil
	}
	return &gamedto.Selection{
		Square:  s.Square,
		Targets: append([]string{}, s.Targets...),
		Message: s.Message,
		Sound:   string(s.Sound),
	}
}

func ToDTODifficulties(cat *msgcat.Catalog, locale string) []gamedto.DifficultyInfo {
	out := make([]gamedto.DifficultyInfo, 0, 3)
	for _, d := range chess.AllDifficulties() {
		p := d.Preset()
		out = append(out, gamedto.DifficultyInfo{
			Name:          d.String(),
			Level:         int(d),
			Label:         cat.Text(locale, "difficulty."+d.String()),
			Weight:        p.Weight,
			ThinkingDelay: p.ThinkingDelay.Milliseconds(),
		})
	}
	return out
}

func ToDTOPiece(p learn.Piece, demo []string, highlights []render.Highlight) gamedto.Piece {
	return gamedto.Piece{
		Key:          p.Key,
		Name:         p.Name,
		Symbol:       p.Symbol,
		Emoji:        p.Emoji,
		UnicornWhite: p.UnicornWhite,
		UnicornBlack: p.UnicornBlack,
		Description:  p.Description,
		Movement:     p.Movement,
		Tips:         append([]string{}, p.Tips...),
		FEN:          p.FEN,
		DemoSquare:   p.DemoSquare,
		DemoMoves:    demo,
		Highlights:   toDTOHighlights(highlights),
	}
}

func ToDTOStep(s learn.Step) gamedto.TutorialStep {
	return gamedto.TutorialStep{
		Index:      s.Index,
		Total:      s.Total,
		Key:        s.Key,
		Title:      s.Title,
		Content:    s.Content,
		FEN:        s.FEN,
		Highlights: toDTOHighlights(s.Highlights),
		First:      s.First,
		Last:       s.Last,
	}
}

func toDTOHighlights(list []render.Highlight) []gamedto.Highlight {
	out := make([]gamedto.Highlight, 0, len(list))
	for _, h := range list {
		out = append(out, gamedto.Highlight{Square: h.Square, Kind: string(h.Kind)})
	}
	return out
}

func colorName(c chess.Color) string {
	switch c {
	case chess.White:
		return "white"
	case chess.Black:
		return "black"
	}
	return ""
}
