package chess

import (
	"math/rand"
	"sort"
	"strings"
)

const (
	selectNoise  = 10.0
	captureBonus = 20.0
	checkBonus   = 30.0
	centerBonus  = 15.0
	developBonus = 10.0
	mateBonus    = 1000.0
)

type ScoredMove struct {
	Move  string
	Score float64
}

// SelectMove picks the computer's reply for d, or reports false when there is no legal move.
func SelectMove(pos RulesOracle, d Difficulty, r *rand.Rand) (string, bool) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return "", false
	}

	scored := ScoreMoves(moves, d.Weight(), r)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	// A mating move always wins; pick among mates only.
	if mates := countMates(scored); mates > 0 {
		return scored[r.Intn(mates)].Move, true
	}

	n := d.Preset().PoolSize(len(scored))
	return scored[r.Intn(n)].Move, true
}

// ScoreMoves draws one noise sample per move, in input order.
func ScoreMoves(moves []string, weight float64, r *rand.Rand) []ScoredMove {
	out := make([]ScoredMove, 0, len(moves))
	for _, mv := range moves {
		score := r.Float64() * selectNoise
		if strings.Contains(mv, "x") {
			score += captureBonus * weight
		}
		if strings.Contains(mv, "+") {
			score += checkBonus * weight
		}
		if IsCenterSquare(SANDestination(mv)) {
			score += centerBonus * weight
		}
		if isPieceMove(mv) {
			score += developBonus * weight
		}
		if isMate(mv) {
			score += mateBonus
		}
		out = append(out, ScoredMove{Move: mv, Score: score})
	}
	return out
}

func countMates(sorted []ScoredMove) int {
	n := 0
	for _, sm := range sorted {
		if !isMate(sm.Move) {
			break
		}
		n++
	}
	return n
}

func isMate(san string) bool {
	return strings.Contains(san, "#")
}

func isPieceMove(san string) bool {
	if san == "" {
		return false
	}
	switch san[0] {
	case 'N', 'B', 'R', 'Q', 'K':
		return true
	}
	return false
}
