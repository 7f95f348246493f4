package chess

import "strings"

type Color string

const (
	White Color = "w"
	Black Color = "b"
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// VerboseMove is the detailed form of a legal move.
type VerboseMove struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Captured bool   `json:"captured"`
	SAN      string `json:"san"`
}

// RulesOracle is the slice of a rules engine the decision functions need.
// Implementations must not change the position while enumerating.
type RulesOracle interface {
	LegalMoves() []string
	LegalMovesVerbose() []VerboseMove
	IsGameOver() bool
	IsCheckmate() bool
	IsDraw() bool
	IsCheck() bool
	SideToMove() Color
}

var centerSquares = map[string]struct{}{
	"d4": {},
	"d5": {},
	"e4": {},
	"e5": {},
}

func IsCenterSquare(square string) bool {
	_, ok := centerSquares[square]
	return ok
}

// SANDestination extracts the target square of a SAN token, or "" for castling.
func SANDestination(san string) string {
	s := strings.TrimRight(san, "+#!?")
	if i := strings.IndexByte(s, '='); i >= 0 {
		s = s[:i]
	}
	if strings.HasPrefix(s, "O-O") || strings.HasPrefix(s, "0-0") {
		return ""
	}
	if len(s) < 2 {
		return ""
	}
	dest := s[len(s)-2:]
	if dest[0] < 'a' || dest[0] > 'h' || dest[1] < '1' || dest[1] > '8' {
		return ""
	}
	return dest
}

// isCastle matches bare castling only; a castle that also checks scores as a check.
func isCastle(san string) bool {
	return san == "O-O" || san == "O-O-O"
}
