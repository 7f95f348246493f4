package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/rules"
	"github.com/park285/unicorn-chess/internal/session"
)

// PlayerMove applies the player's move. A continuing game hands the turn to
// the computer, which becomes due after the tier's thinking delay.
func (s *Service) PlayerMove(ctx context.Context, id, from, to, promotion string) (*MoveResult, error) {
	var (
		applied rules.AppliedMove
		after   *rules.Position
	)
	p, err := s.store.Update(ctx, id, func(p *session.Payload) error {
		if err := playable(p); err != nil {
			return err
		}
		pos, err := replay(p)
		if err != nil {
			return err
		}
		if pos.SideToMove() != playerColor {
			return ErrNotYourTurn
		}
		next, mv, err := pos.Apply(from, to, promotion)
		if err != nil {
			return err
		}
		applied, after = mv, next
		p.Moves = append(p.Moves, mv.UCI)
		p.HintFrom, p.HintTo = "", ""
		p.UpdatedAt = s.now()
		s.noteOpening(p, next)
		if s.settle(p, next, playerColor) {
			return nil
		}
		p.ComputerPending = true
		p.ComputerDueAt = p.UpdatedAt.Add(s.thinkingDelay(p.Difficulty))
		p.Message = s.text(p.Locale, "game.thinking")
		p.Sound = string(SoundMove)
		if mv.Check {
			p.Message = s.text(p.Locale, "game.check_computer")
			p.Sound = string(SoundCheck)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, rules.ErrIllegalMove) || errors.Is(err, rules.ErrInvalidSquare) {
			s.logger.Debug("player_move_rejected", zap.String("game_id", id), zap.String("from", from), zap.String("to", to), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("player_move",
		zap.String("game_id", p.ID),
		zap.String("san", applied.SAN),
		zap.String("uci", applied.UCI),
		zap.String("status", string(p.Status)),
	)
	s.logGameOver(p)
	return &MoveResult{State: s.stateFrom(p, after), Move: applied, By: playerColor, Moved: true}, nil
}

// ComputerMove waits out the thinking delay and then plays the computer's reply.
func (s *Service) ComputerMove(ctx context.Context, id string) (*MoveResult, error) {
	cur, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status.Finished() {
		return nil, ErrGameOver
	}
	if !cur.ComputerPending {
		return nil, ErrNoComputerTurn
	}
	if err := s.waitUntil(ctx, cur.ComputerDueAt); err != nil {
		return nil, err
	}

	var (
		applied rules.AppliedMove
		after   *rules.Position
		moved   bool
	)
	p, err := s.store.Update(ctx, id, func(p *session.Payload) error {
		if p.Status.Finished() {
			return ErrGameOver
		}
		if !p.ComputerPending {
			return ErrNoComputerTurn
		}
		pos, err := replay(p)
		if err != nil {
			return err
		}
		after = pos
		p.ComputerPending = false
		p.ComputerDueAt = zeroTime
		p.UpdatedAt = s.now()
		if pos.SideToMove() == playerColor {
			return nil
		}
		san, ok := s.advisor.SelectMove(pos, p.Difficulty)
		if !ok {
			s.settle(p, pos, playerColor)
			return nil
		}
		next, mv, err := pos.ApplySAN(san)
		if err != nil {
			return fmt.Errorf("computer move %q: %w", san, err)
		}
		applied, after, moved = mv, next, true
		p.Moves = append(p.Moves, mv.UCI)
		s.noteOpening(p, next)
		if s.settle(p, next, playerColor.Other()) {
			return nil
		}
		if mv.Check {
			p.Message = s.text(p.Locale, "game.check_player")
			p.Sound = string(SoundCheck)
			return nil
		}
		p.Message = s.advisor.PickEncouragement(s.catalog.List(p.Locale, "encourage"))
		p.Sound = string(SoundMove)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("computer_move",
		zap.String("game_id", p.ID),
		zap.String("difficulty", p.Difficulty.String()),
		zap.String("san", applied.SAN),
		zap.Bool("moved", moved),
		zap.String("status", string(p.Status)),
	)
	s.logGameOver(p)
	return &MoveResult{State: s.stateFrom(p, after), Move: applied, By: playerColor.Other(), Moved: moved}, nil
}

func playable(p *session.Payload) error {
	if p.Status.Finished() {
		return ErrGameOver
	}
	if p.ComputerPending {
		return ErrComputerThinking
	}
	return nil
}

// settle records a finished game on p and reports whether it finished.
// mover is the side that just moved.
func (s *Service) settle(p *session.Payload, pos *rules.Position, mover chess.Color) bool {
	switch {
	case pos.IsCheckmate():
		p.ComputerPending = false
		if mover == playerColor {
			p.Status = session.StatusWon
			p.Message = s.text(p.Locale, "game.won")
			p.Sound = string(SoundWin)
		} else {
			p.Status = session.StatusLost
			p.Message = s.text(p.Locale, "game.lost")
			p.Sound = string(SoundLose)
		}
		return true
	case pos.IsDraw():
		p.ComputerPending = false
		p.Status = session.StatusDraw
		p.Message = s.text(p.Locale, "game.draw")
		p.Sound = string(SoundDraw)
		return true
	}
	return false
}

func (s *Service) noteOpening(p *session.Payload, pos *rules.Position) {
	code, title := pos.Opening()
	if code == "" || code == p.OpeningCode {
		return
	}
	p.OpeningCode, p.OpeningTitle = code, title
	s.logger.Debug("game_opening",
		zap.String("game_id", p.ID),
		zap.String("eco_code", code),
		zap.String("eco_title", title),
		zap.Int("ply", len(p.Moves)),
	)
}

func (s *Service) logGameOver(p *session.Payload) {
	if !p.Status.Finished() {
		return
	}
	s.logger.Info("game_over",
		zap.String("game_id", p.ID),
		zap.String("status", string(p.Status)),
		zap.Int("plies", len(p.Moves)),
		zap.Duration("duration", p.UpdatedAt.Sub(p.StartedAt)),
	)
}
