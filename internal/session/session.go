package session

import (
	"context"
	"errors"
	"time"

	"github.com/park285/unicorn-chess/internal/chess"
)

var (
	ErrNotFound = errors.New("game session not found")
	ErrConflict = errors.New("game session changed concurrently")
)

type Status string

const (
	StatusPlaying  Status = "playing"
	StatusWon      Status = "won"
	StatusLost     Status = "lost"
	StatusDraw     Status = "draw"
	StatusResigned Status = "resigned"
)

func (s Status) Finished() bool {
	return s != StatusPlaying && s != ""
}

// Payload is everything needed to rebuild a game. The board itself is replayed from Moves.
type Payload struct {
	ID              string           `json:"id"`
	Difficulty      chess.Difficulty `json:"difficulty"`
	Locale          string           `json:"locale"`
	Moves           []string         `json:"moves"`
	Status          Status           `json:"status"`
	Message         string           `json:"message,omitempty"`
	Sound           string           `json:"sound,omitempty"`
	OpeningCode     string           `json:"openingCode,omitempty"`
	OpeningTitle    string           `json:"openingTitle,omitempty"`
	HintFrom        string           `json:"hintFrom,omitempty"`
	HintTo          string           `json:"hintTo,omitempty"`
	ComputerPending bool             `json:"computerPending"`
	ComputerDueAt   time.Time        `json:"computerDueAt,omitempty"`
	StartedAt       time.Time        `json:"startedAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (p *Payload) Clone() *Payload {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Moves = append([]string(nil), p.Moves...)
	return &cp
}

// Store keeps game sessions. Update runs fn against the latest payload and
// persists the result only when fn returns nil.
type Store interface {
	Load(ctx context.Context, id string) (*Payload, error)
	Save(ctx context.Context, p *Payload) error
	Update(ctx context.Context, id string, fn func(*Payload) error) (*Payload, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
