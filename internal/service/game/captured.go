package game

import (
	nchess "github.com/corentings/chess/v2"

	"github.com/park285/unicorn-chess/internal/rules"
)

var startingCounts = map[nchess.PieceType]int{
	nchess.Queen:  1,
	nchess.Rook:   2,
	nchess.Bishop: 2,
	nchess.Knight: 2,
	nchess.Pawn:   8,
}

var pieceValues = map[nchess.PieceType]int{
	nchess.Pawn:   1,
	nchess.Knight: 3,
	nchess.Bishop: 3,
	nchess.Rook:   5,
	nchess.Queen:  9,
}

var captureOrder = []nchess.PieceType{nchess.Queen, nchess.Rook, nchess.Bishop, nchess.Knight, nchess.Pawn}

var pieceNames = map[nchess.PieceType]string{
	nchess.Queen:  "queen",
	nchess.Rook:   "rook",
	nchess.Bishop: "bishop",
	nchess.Knight: "knight",
	nchess.Pawn:   "pawn",
}

// Captured lists taken pieces by name, most valuable first.
// Material is the player's material minus the computer's.
type Captured struct {
	ByPlayer   []string `json:"byPlayer"`
	ByComputer []string `json:"byComputer"`
	Material   int      `json:"material"`
}

// capturedPieces infers captures from what is missing on the board, so a
// promoted pawn counts as lost.
func capturedPieces(pos *rules.Position) Captured {
	out := Captured{ByPlayer: []string{}, ByComputer: []string{}}
	counts := map[nchess.Color]map[nchess.PieceType]int{
		nchess.White: {},
		nchess.Black: {},
	}
	totals := map[nchess.Color]int{}
	for _, piece := range pos.Board().SquareMap() {
		counts[piece.Color()][piece.Type()]++
		totals[piece.Color()] += pieceValues[piece.Type()]
	}
	for _, pt := range captureOrder {
		for i := counts[nchess.Black][pt]; i < startingCounts[pt]; i++ {
			out.ByPlayer = append(out.ByPlayer, pieceNames[pt])
		}
		for i := counts[nchess.White][pt]; i < startingCounts[pt]; i++ {
			out.ByComputer = append(out.ByComputer, pieceNames[pt])
		}
	}
	out.Material = totals[nchess.White] - totals[nchess.Black]
	return out
}

func ownsPiece(pos *rules.Position, square string) bool {
	sq, err := rules.ParseSquare(square)
	if err != nil {
		return false
	}
	piece := pos.Board().Piece(sq)
	return piece != nchess.NoPiece && piece.Color() == nchess.White
}
