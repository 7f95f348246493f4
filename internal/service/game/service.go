package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/msgcat"
	"github.com/park285/unicorn-chess/internal/render"
	"github.com/park285/unicorn-chess/internal/rules"
	"github.com/park285/unicorn-chess/internal/session"
)

var (
	ErrGameNotFound     = session.ErrNotFound
	ErrIllegalMove      = rules.ErrIllegalMove
	ErrInvalidSquare    = rules.ErrInvalidSquare
	ErrGameOver         = rules.ErrGameOver
	ErrNotYourTurn      = errors.New("not the player's turn")
	ErrComputerThinking = errors.New("computer is thinking")
	ErrNoComputerTurn   = errors.New("computer has nothing to play")
)

type Sound string

const (
	SoundMove    Sound = "move"
	SoundClick   Sound = "click"
	SoundWin     Sound = "win"
	SoundLose    Sound = "lose"
	SoundCheck   Sound = "check"
	SoundHint    Sound = "hint"
	SoundInvalid Sound = "invalid"
	SoundStart   Sound = "start"
	SoundDraw    Sound = "draw"
)

// The human always plays White.
const playerColor = chess.White

type Config struct {
	DefaultDifficulty chess.Difficulty
	DefaultLocale     string
	// DelayScale multiplies every thinking pause; 0 disables them.
	DelayScale float64
}

type Service struct {
	store    session.Store
	advisor  *chess.Advisor
	catalog  *msgcat.Catalog
	renderer render.BoardRenderer
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

type LastMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type State struct {
	ID              string           `json:"id"`
	Difficulty      chess.Difficulty `json:"difficulty"`
	DifficultyLabel string           `json:"difficultyLabel"`
	Locale          string           `json:"locale"`
	FEN             string           `json:"fen"`
	Turn            chess.Color      `json:"turn"`
	Moves           []string         `json:"moves"`
	MovesSAN        []string         `json:"movesSan"`
	Status          session.Status   `json:"status"`
	Message         string           `json:"message"`
	Sound           Sound            `json:"sound,omitempty"`
	InCheck         bool             `json:"inCheck"`
	CheckSquare     string           `json:"checkSquare,omitempty"`
	DrawReason      string           `json:"drawReason,omitempty"`
	LastMove        *LastMove        `json:"lastMove,omitempty"`
	Hint            *chess.Hint      `json:"hint,omitempty"`
	OpeningCode     string           `json:"openingCode,omitempty"`
	OpeningTitle    string           `json:"openingTitle,omitempty"`
	ComputerPending bool             `json:"computerPending"`
	ComputerDueAt   time.Time        `json:"computerDueAt,omitempty"`
	Captured        Captured         `json:"captured"`
	StartedAt       time.Time        `json:"startedAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type MoveResult struct {
	State *State            `json:"state"`
	Move  rules.AppliedMove `json:"move"`
	By    chess.Color       `json:"by"`
	Moved bool              `json:"moved"`
}

type HintResult struct {
	State *State     `json:"state"`
	Hint  chess.Hint `json:"hint"`
	Found bool       `json:"found"`
}

type Selection struct {
	Square  string   `json:"square"`
	Targets []string `json:"targets"`
	Message string   `json:"message"`
	Sound   Sound    `json:"sound"`
}

func NewService(store session.Store, advisor *chess.Advisor, catalog *msgcat.Catalog, renderer render.BoardRenderer, cfg Config, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if advisor == nil {
		return nil, fmt.Errorf("advisor is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("message catalog is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("board renderer is required")
	}
	if cfg.DelayScale < 0 {
		return nil, fmt.Errorf("delay scale must be >= 0: %f", cfg.DelayScale)
	}
	if !cfg.DefaultDifficulty.Valid() {
		cfg.DefaultDifficulty = chess.Easy
	}
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		cfg.DefaultLocale = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		advisor:  advisor,
		catalog:  catalog,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (s *Service) Catalog() *msgcat.Catalog { return s.catalog }

// Start opens a new game with the player to move.
func (s *Service) Start(ctx context.Context, difficulty chess.Difficulty, locale string) (*State, error) {
	if !difficulty.Valid() {
		difficulty = s.cfg.DefaultDifficulty
	}
	locale = s.locale(locale)
	now := s.now()
	p := &session.Payload{
		ID:         uuid.NewString(),
		Difficulty: difficulty,
		Locale:     locale,
		Moves:      []string{},
		Status:     session.StatusPlaying,
		Message:    s.text(locale, "game.greeting"),
		Sound:      string(SoundStart),
		StartedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("game_start",
		zap.String("game_id", p.ID),
		zap.String("difficulty", difficulty.String()),
		zap.String("locale", locale),
	)
	pos := rules.New()
	return s.stateFrom(p, pos), nil
}

func (s *Service) State(ctx context.Context, id string) (*State, error) {
	p, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	pos, err := replay(p)
	if err != nil {
		return nil, err
	}
	return s.stateFrom(p, pos), nil
}

func (s *Service) locale(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return s.cfg.DefaultLocale
	}
	return s.catalog.Match(requested)
}

func (s *Service) text(locale, key string) string {
	return s.catalog.Text(locale, key)
}

func (s *Service) render(locale, key string, data any) string {
	out, err := s.catalog.Render(locale, key, data)
	if err != nil {
		s.logger.Warn("message render failed", zap.String("key", key), zap.Error(err))
		return key
	}
	return out
}

func (s *Service) difficultyLabel(locale string, d chess.Difficulty) string {
	return s.text(locale, "difficulty."+d.Preset().Name)
}

func replay(p *session.Payload) (*rules.Position, error) {
	pos, err := rules.Replay(rules.StartFEN, p.Moves)
	if err != nil {
		return nil, fmt.Errorf("replay game %s: %w", p.ID, err)
	}
	return pos, nil
}

func (s *Service) stateFrom(p *session.Payload, pos *rules.Position) *State {
	st := &State{
		ID:              p.ID,
		Difficulty:      p.Difficulty,
		DifficultyLabel: s.difficultyLabel(p.Locale, p.Difficulty),
		Locale:          p.Locale,
		FEN:             pos.FEN(),
		Turn:            pos.SideToMove(),
		Moves:           append([]string{}, p.Moves...),
		MovesSAN:        pos.HistorySAN(),
		Status:          p.Status,
		Message:         p.Message,
		Sound:           Sound(p.Sound),
		InCheck:         pos.IsCheck(),
		OpeningCode:     p.OpeningCode,
		OpeningTitle:    p.OpeningTitle,
		ComputerPending: p.ComputerPending,
		ComputerDueAt:   p.ComputerDueAt,
		Captured:        capturedPieces(pos),
		StartedAt:       p.StartedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if st.MovesSAN == nil {
		st.MovesSAN = []string{}
	}
	if st.InCheck {
		st.CheckSquare = pos.KingSquare(st.Turn)
	}
	if p.Status == session.StatusDraw {
		st.DrawReason = pos.DrawReason()
	}
	if from, to, ok := pos.LastMove(); ok {
		st.LastMove = &LastMove{From: from, To: to}
	}
	if p.HintFrom != "" && p.HintTo != "" {
		st.Hint = &chess.Hint{From: p.HintFrom, To: p.HintTo}
	}
	return st
}

// waitUntil blocks until due or until ctx is done.
func (s *Service) waitUntil(ctx context.Context, due time.Time) error {
	d := due.Sub(s.now())
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) thinkingDelay(d chess.Difficulty) time.Duration {
	total := chess.HandoffDelay + d.ThinkingDelay()
	return time.Duration(float64(total) * s.cfg.DelayScale)
}
