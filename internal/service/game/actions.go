package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/rules"
	"github.com/park285/unicorn-chess/internal/session"
)

var zeroTime time.Time

func (s *Service) Hint(ctx context.Context, id string) (*HintResult, error) {
	var (
		hint  chess.Hint
		found bool
		after *rules.Position
	)
	p, err := s.store.Update(ctx, id, func(p *session.Payload) error {
		if err := playable(p); err != nil {
			return err
		}
		pos, err := replay(p)
		if err != nil {
			return err
		}
		after = pos
		if pos.SideToMove() != playerColor {
			return ErrNotYourTurn
		}
		hint, found = s.advisor.SuggestHint(pos)
		p.UpdatedAt = s.now()
		if !found {
			p.HintFrom, p.HintTo = "", ""
			p.Message = s.text(p.Locale, "game.no_hint")
			p.Sound = string(SoundClick)
			return nil
		}
		p.HintFrom, p.HintTo = hint.From, hint.To
		p.Message = s.render(p.Locale, "game.hint", map[string]string{"From": hint.From, "To": hint.To})
		p.Sound = string(SoundHint)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("hint",
		zap.String("game_id", p.ID),
		zap.Bool("found", found),
		zap.String("san", hint.SAN),
	)
	return &HintResult{State: s.stateFrom(p, after), Hint: hint, Found: found}, nil
}

// ChangeDifficulty switches tiers mid-game; the next computer move uses the new tier.
func (s *Service) ChangeDifficulty(ctx context.Context, id string, d chess.Difficulty) (*State, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", chess.ErrUnknownDifficulty, int(d))
	}
	var after *rules.Position
	p, err := s.store.Update(ctx, id, func(p *session.Payload) error {
		pos, err := replay(p)
		if err != nil {
			return err
		}
		after = pos
		p.Difficulty = d
		p.Message = s.render(p.Locale, "game.difficulty_changed", map[string]string{"Label": s.difficultyLabel(p.Locale, d)})
		p.Sound = string(SoundClick)
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("difficulty_change", zap.String("game_id", p.ID), zap.String("difficulty", d.String()))
	return s.stateFrom(p, after), nil
}

// Reset starts the same game over, keeping its id, tier and locale.
func (s *Service) Reset(ctx context.Context, id string) (*State, error) {
	p, err := s.store.Update(ctx, id, func(p *session.Payload) error {
		now := s.now()
		p.Moves = []string{}
		p.Status = session.StatusPlaying
		p.Message = s.text(p.Locale, "game.greeting")
		p.Sound = string(SoundStart)
		p.OpeningCode, p.OpeningTitle = "", ""
		p.HintFrom, p.HintTo = "", ""
		p.ComputerPending = false
		p.ComputerDueAt = zeroTime
		p.StartedAt = now
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("game_reset", zap.String("game_id", p.ID))
	return s.stateFrom(p, rules.New()), nil
}

func (s *Service) Resign(ctx context.Context, id string) (*State, error) {
	var after *rules.Position
	p, err := s.store.Update(ctx, id, func(p *session.Payload) error {
		if p.Status.Finished() {
			return ErrGameOver
		}
		pos, err := replay(p)
		if err != nil {
			return err
		}
		after = pos
		p.Status = session.StatusResigned
		p.Message = s.text(p.Locale, "game.resigned")
		p.Sound = string(SoundLose)
		p.ComputerPending = false
		p.ComputerDueAt = zeroTime
		p.HintFrom, p.HintTo = "", ""
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logGameOver(p)
	return s.stateFrom(p, after), nil
}

// SelectSquare lists where the player's piece on square may go. Nothing is stored.
func (s *Service) SelectSquare(ctx context.Context, id, square string) (*Selection, error) {
	square = strings.ToLower(strings.TrimSpace(square))
	if !rules.ValidSquare(square) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSquare, square)
	}
	p, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := playable(p); err != nil {
		return nil, err
	}
	pos, err := replay(p)
	if err != nil {
		return nil, err
	}
	sel := &Selection{Square: square, Targets: []string{}, Sound: SoundClick}
	if !ownsPiece(pos, square) {
		sel.Message = s.text(p.Locale, "game.select_empty")
		sel.Sound = SoundInvalid
		return sel, nil
	}
	moves, err := pos.MovesFrom(square)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(moves))
	for _, mv := range moves {
		if _, dup := seen[mv.To]; dup {
			continue
		}
		seen[mv.To] = struct{}{}
		sel.Targets = append(sel.Targets, mv.To)
	}
	if len(sel.Targets) == 0 {
		sel.Message = s.text(p.Locale, "game.select_none")
		return sel, nil
	}
	sel.Message = s.render(p.Locale, "game.select_moves", map[string]int{"Count": len(sel.Targets)})
	return sel, nil
}
