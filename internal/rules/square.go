package rules

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (nchess.Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return nchess.NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return nchess.NewSquare(nchess.File(s[0]-'a'), nchess.Rank(s[1]-'1')), nil
}

func ValidSquare(s string) bool {
	_, err := ParseSquare(s)
	return err == nil
}

// BoardFromFEN decodes only the placement field, so diagrams without kings are accepted.
func BoardFromFEN(fen string) (*nchess.Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidFEN)
	}
	board := &nchess.Board{}
	if err := board.UnmarshalText([]byte(fields[0])); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return board, nil
}

func pieceAt(board *nchess.Board, file, rank int) nchess.Piece {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return nchess.NoPiece
	}
	return board.Piece(nchess.NewSquare(nchess.File(file), nchess.Rank(rank)))
}

func kingSquare(board *nchess.Board, color nchess.Color) (nchess.Square, bool) {
	for sq, pc := range board.SquareMap() {
		if pc.Type() == nchess.King && pc.Color() == color {
			return sq, true
		}
	}
	return nchess.NoSquare, false
}

var (
	knightSteps   = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps     = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straightSteps = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalSteps = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// kingAttacked reports whether the king of color stands on an attacked square.
func kingAttacked(board *nchess.Board, color nchess.Color) bool {
	king, ok := kingSquare(board, color)
	if !ok {
		return false
	}
	enemy := color.Other()
	kf, kr := int(king.File()), int(king.Rank())

	is := func(pc nchess.Piece, types ...nchess.PieceType) bool {
		if pc == nchess.NoPiece || pc.Color() != enemy {
			return false
		}
		for _, t := range types {
			if pc.Type() == t {
				return true
			}
		}
		return false
	}

	for _, st := range knightSteps {
		if is(pieceAt(board, kf+st[0], kr+st[1]), nchess.Knight) {
			return true
		}
	}
	for _, st := range kingSteps {
		if is(pieceAt(board, kf+st[0], kr+st[1]), nchess.King) {
			return true
		}
	}

	// Enemy pawns attack toward our side of the board.
	pawnRank := kr + 1
	if color == nchess.Black {
		pawnRank = kr - 1
	}
	if is(pieceAt(board, kf-1, pawnRank), nchess.Pawn) || is(pieceAt(board, kf+1, pawnRank), nchess.Pawn) {
		return true
	}

	slide := func(steps [4][2]int, types ...nchess.PieceType) bool {
		for _, st := range steps {
			f, r := kf+st[0], kr+st[1]
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				pc := pieceAt(board, f, r)
				if pc != nchess.NoPiece {
					if is(pc, types...) {
						return true
					}
					break
				}
				f += st[0]
				r += st[1]
			}
		}
		return false
	}
	return slide(straightSteps, nchess.Rook, nchess.Queen) || slide(diagonalSteps, nchess.Bishop, nchess.Queen)
}
