package chess

import (
	"math/rand"
	"strings"
)

const (
	hintNoise        = 5.0
	hintCaptureBonus = 20.0
	hintCheckBonus   = 25.0
	hintCastleBonus  = 15.0
	hintCenterBonus  = 10.0
)

type Hint struct {
	From string `json:"from"`
	To   string `json:"to"`
	SAN  string `json:"san,omitempty"`
}

// SuggestHint returns a reasonable move for the side to move.
// Later candidates replace the current best only on a strictly higher score.
func SuggestHint(pos RulesOracle, r *rand.Rand) (Hint, bool) {
	moves := pos.LegalMovesVerbose()
	if len(moves) == 0 {
		return Hint{}, false
	}

	best := moves[0]
	bestScore := 0.0
	for _, mv := range moves {
		score := r.Float64() * hintNoise
		if mv.Captured {
			score += hintCaptureBonus
		}
		if strings.Contains(mv.SAN, "+") {
			score += hintCheckBonus
		}
		if isCastle(mv.SAN) {
			score += hintCastleBonus
		}
		if IsCenterSquare(mv.To) {
			score += hintCenterBonus
		}
		if score > bestScore {
			best = mv
			bestScore = score
		}
	}
	return Hint{From: best.From, To: best.To, SAN: best.SAN}, true
}
