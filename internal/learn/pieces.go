package learn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/park285/unicorn-chess/internal/msgcat"
	"github.com/park285/unicorn-chess/internal/render"
	"github.com/park285/unicorn-chess/internal/rules"
)

var (
	ErrUnknownPiece = errors.New("unknown piece")
	ErrUnknownStep  = errors.New("unknown tutorial step")
)

type Piece struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	Emoji        string   `json:"emoji"`
	UnicornWhite string   `json:"unicornWhite"`
	UnicornBlack string   `json:"unicornBlack"`
	Description  string   `json:"description"`
	Movement     string   `json:"movement"`
	Tips         []string `json:"tips"`
	FEN          string   `json:"fen"`
	DemoSquare   string   `json:"demoSquare"`
}

type pieceDef struct {
	key          string
	symbol       string
	emoji        string
	unicornWhite string
	unicornBlack string
	// fen is the diagram shown to the player. playFEN adds the kings the rules engine needs.
	fen     string
	playFEN string
}

const demoSquare = "e5"

var pieceDefs = []pieceDef{
	{key: "king", symbol: "♔", emoji: "👑", unicornWhite: "🤴", unicornBlack: "🎭",
		fen: "8/8/8/4K3/8/8/8/8 w - - 0 1", playFEN: "8/7k/8/4K3/8/8/8/8 w - - 0 1"},
	{key: "queen", symbol: "♕", emoji: "👸", unicornWhite: "👸", unicornBlack: "👑",
		fen: "8/8/8/4Q3/8/8/8/8 w - - 0 1", playFEN: "8/7k/8/4Q3/8/8/8/1K6 w - - 0 1"},
	{key: "rook", symbol: "♖", emoji: "🏰", unicornWhite: "🏰", unicornBlack: "🗼",
		fen: "8/8/8/4R3/8/8/8/8 w - - 0 1", playFEN: "8/7k/8/4R3/8/8/8/1K6 w - - 0 1"},
	{key: "bishop", symbol: "♗", emoji: "⛪", unicornWhite: "⭐", unicornBlack: "🌟",
		fen: "8/8/8/4B3/8/8/8/8 w - - 0 1", playFEN: "8/7k/8/4B3/8/8/8/1K6 w - - 0 1"},
	{key: "knight", symbol: "♘", emoji: "🐴", unicornWhite: "🦄", unicornBlack: "🎠",
		fen: "8/8/8/4N3/8/8/8/8 w - - 0 1", playFEN: "8/7k/8/4N3/8/8/8/1K6 w - - 0 1"},
	{key: "pawn", symbol: "♙", emoji: "⚔️", unicornWhite: "🤍", unicornBlack: "💜",
		fen: "8/8/8/4P3/8/8/8/8 w - - 0 1", playFEN: "8/7k/8/4P3/8/8/8/1K6 w - - 0 1"},
}

// Library serves the learn-the-pieces gallery and the tutorial with localized text.
type Library struct {
	cat *msgcat.Catalog
}

func NewLibrary(cat *msgcat.Catalog) *Library {
	return &Library{cat: cat}
}

func findPiece(key string) (pieceDef, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, def := range pieceDefs {
		if def.key == key {
			return def, nil
		}
	}
	return pieceDef{}, fmt.Errorf("%w: %q", ErrUnknownPiece, key)
}

func (l *Library) Pieces(locale string) []Piece {
	out := make([]Piece, 0, len(pieceDefs))
	for _, def := range pieceDefs {
		out = append(out, l.piece(locale, def))
	}
	return out
}

func (l *Library) Piece(locale, key string) (Piece, error) {
	def, err := findPiece(key)
	if err != nil {
		return Piece{}, err
	}
	return l.piece(locale, def), nil
}

func (l *Library) piece(locale string, def pieceDef) Piece {
	prefix := "pieces." + def.key + "."
	return Piece{
		Key:          def.key,
		Name:         l.cat.Text(locale, prefix+"name"),
		Symbol:       def.symbol,
		Emoji:        def.emoji,
		UnicornWhite: def.unicornWhite,
		UnicornBlack: def.unicornBlack,
		Description:  l.cat.Text(locale, prefix+"description"),
		Movement:     l.cat.Text(locale, prefix+"movement"),
		Tips:         l.cat.List(locale, prefix+"tips"),
		FEN:          def.fen,
		DemoSquare:   demoSquare,
	}
}

// DemoMoves lists the squares the demo piece can reach from the centre of an otherwise quiet board.
func (l *Library) DemoMoves(key string) ([]string, error) {
	def, err := findPiece(key)
	if err != nil {
		return nil, err
	}
	pos, err := rules.FromFEN(def.playFEN)
	if err != nil {
		return nil, err
	}
	moves, err := pos.MovesFrom(demoSquare)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(moves))
	seen := make(map[string]struct{}, len(moves))
	for _, mv := range moves {
		if _, dup := seen[mv.To]; dup {
			continue
		}
		seen[mv.To] = struct{}{}
		out = append(out, mv.To)
	}
	return out, nil
}

// DemoHighlights marks the demo square and, when showMoves is set, every reachable square.
func (l *Library) DemoHighlights(key string, showMoves bool) ([]render.Highlight, error) {
	if _, err := findPiece(key); err != nil {
		return nil, err
	}
	out := []render.Highlight{{Square: demoSquare, Kind: render.HighlightSelect}}
	if !showMoves {
		return out, nil
	}
	targets, err := l.DemoMoves(key)
	if err != nil {
		return nil, err
	}
	for _, sq := range targets {
		out = append(out, render.Highlight{Square: sq, Kind: render.HighlightTarget})
	}
	return out, nil
}

// DiagramFEN is the board shown for key.
func DiagramFEN(key string) (string, error) {
	def, err := findPiece(key)
	if err != nil {
		return "", err
	}
	return def.fen, nil
}
