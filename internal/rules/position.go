package rules

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"

	"github.com/park285/unicorn-chess/internal/chess"
)

var (
	ErrInvalidFEN    = errors.New("invalid fen")
	ErrInvalidSquare = errors.New("invalid square")
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is an immutable snapshot over the rules engine. Applying a move returns a new Position.
type Position struct {
	game    *nchess.Game
	history []string
	sans    []string
}

var _ chess.RulesOracle = (*Position)(nil)

type AppliedMove struct {
	From     string `json:"from"`
	To       string `json:"to"`
	SAN      string `json:"san"`
	UCI      string `json:"uci"`
	Captured bool   `json:"captured"`
	Check    bool   `json:"check"`
	Mate     bool   `json:"mate"`
}

type Outcome string

const (
	Ongoing   Outcome = ""
	WhiteWins Outcome = "white"
	BlackWins Outcome = "black"
	Drawn     Outcome = "draw"
)

func New() *Position {
	return &Position{game: nchess.NewGame()}
}

func FromFEN(fen string) (*Position, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		return New(), nil
	}
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return &Position{game: nchess.NewGame(opt)}, nil
}

// Replay builds the position reached by the UCI moves from fen (empty for the start position).
func Replay(fen string, moves []string) (*Position, error) {
	p, err := FromFEN(fen)
	if err != nil {
		return nil, err
	}
	notation := nchess.UCINotation{}
	for _, raw := range moves {
		mv, err := notation.Decode(p.game.Position(), strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			return nil, fmt.Errorf("decode move %s: %w", raw, errors.Join(ErrIllegalMove, err))
		}
		san := sanOf(p.game.Position(), mv)
		if err := p.game.Move(mv, nil); err != nil {
			return nil, fmt.Errorf("apply move %s: %w", raw, errors.Join(ErrIllegalMove, err))
		}
		p.history = append(p.history, strings.ToLower(strings.TrimSpace(raw)))
		p.sans = append(p.sans, san)
	}
	return p, nil
}

func (p *Position) FEN() string {
	return p.game.FEN()
}

// History lists the moves played since the root position in UCI form.
func (p *Position) History() []string {
	return append([]string(nil), p.history...)
}

// HistorySAN lists the same moves as History in SAN, for move lists shown to the player.
func (p *Position) HistorySAN() []string {
	return append([]string(nil), p.sans...)
}

func (p *Position) Board() *nchess.Board {
	return p.game.Position().Board()
}

func (p *Position) SideToMove() chess.Color {
	return toColor(p.game.Position().Turn())
}

func (p *Position) LegalMoves() []string {
	pos := p.game.Position()
	moves := pos.ValidMoves()
	out := make([]string, 0, len(moves))
	notation := nchess.AlgebraicNotation{}
	for i := range moves {
		out = append(out, notation.Encode(pos, &moves[i]))
	}
	return out
}

func (p *Position) LegalMovesVerbose() []chess.VerboseMove {
	pos := p.game.Position()
	moves := pos.ValidMoves()
	out := make([]chess.VerboseMove, 0, len(moves))
	for i := range moves {
		out = append(out, verbose(pos, &moves[i]))
	}
	return out
}

// MovesFrom lists the legal moves of the piece standing on square.
func (p *Position) MovesFrom(square string) ([]chess.VerboseMove, error) {
	sq, err := ParseSquare(square)
	if err != nil {
		return nil, err
	}
	pos := p.game.Position()
	moves := pos.ValidMoves()
	var out []chess.VerboseMove
	for i := range moves {
		if moves[i].S1() == sq {
			out = append(out, verbose(pos, &moves[i]))
		}
	}
	return out, nil
}

func (p *Position) IsCheckmate() bool {
	return p.game.Position().Status() == nchess.Checkmate
}

func (p *Position) IsStalemate() bool {
	return p.game.Position().Status() == nchess.Stalemate
}

// IsDraw also counts threefold repetition and the fifty-move rule, which the engine only offers as claims.
func (p *Position) IsDraw() bool {
	if p.game.Outcome() == nchess.Draw || p.IsStalemate() {
		return true
	}
	for _, m := range p.game.EligibleDraws() {
		if m == nchess.ThreefoldRepetition || m == nchess.FiftyMoveRule {
			return true
		}
	}
	return false
}

func (p *Position) IsCheck() bool {
	pos := p.game.Position()
	return kingAttacked(pos.Board(), pos.Turn())
}

func (p *Position) IsGameOver() bool {
	if p.game.Outcome() != nchess.NoOutcome {
		return true
	}
	return p.IsCheckmate() || p.IsDraw() || len(p.game.Position().ValidMoves()) == 0
}

func (p *Position) Outcome() Outcome {
	switch {
	case p.IsCheckmate():
		if p.game.Position().Turn() == nchess.White {
			return BlackWins
		}
		return WhiteWins
	case p.IsDraw():
		return Drawn
	}
	switch p.game.Outcome() {
	case nchess.WhiteWon:
		return WhiteWins
	case nchess.BlackWon:
		return BlackWins
	case nchess.Draw:
		return Drawn
	}
	return Ongoing
}

// DrawReason names why the game is drawn, or "" when it is not.
func (p *Position) DrawReason() string {
	if !p.IsDraw() {
		return ""
	}
	if p.IsStalemate() {
		return nchess.Stalemate.String()
	}
	if m := p.game.Method(); m != nchess.NoMethod {
		return m.String()
	}
	for _, m := range p.game.EligibleDraws() {
		if m == nchess.ThreefoldRepetition || m == nchess.FiftyMoveRule {
			return m.String()
		}
	}
	return "draw"
}

// KingSquare returns where the king of c stands, or "" when it is absent.
func (p *Position) KingSquare(c chess.Color) string {
	sq, ok := kingSquare(p.Board(), fromColor(c))
	if !ok {
		return ""
	}
	return sq.String()
}

// LastMove reports the squares of the most recent move.
func (p *Position) LastMove() (from, to string, ok bool) {
	if len(p.history) == 0 {
		return "", "", false
	}
	last := p.history[len(p.history)-1]
	if len(last) < 4 {
		return "", "", false
	}
	return last[:2], last[2:4], true
}

var (
	ecoOnce  sync.Once
	ecoTable *opening.BookECO
)

func ecoBook() *opening.BookECO {
	ecoOnce.Do(func() { ecoTable = opening.NewBookECO() })
	return ecoTable
}

// Opening names the ECO line matching the moves played so far.
func (p *Position) Opening() (code, title string) {
	if len(p.history) == 0 {
		return "", ""
	}
	book := ecoBook()
	if book == nil {
		return "", ""
	}
	if eco := book.Find(p.game.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}

// Apply plays from-to. An empty promotion promotes to a queen.
func (p *Position) Apply(from, to, promotion string) (*Position, AppliedMove, error) {
	s1, err := ParseSquare(from)
	if err != nil {
		return nil, AppliedMove{}, err
	}
	s2, err := ParseSquare(to)
	if err != nil {
		return nil, AppliedMove{}, err
	}
	promo, err := parsePromotion(promotion)
	if err != nil {
		return nil, AppliedMove{}, err
	}
	if p.IsGameOver() {
		return nil, AppliedMove{}, ErrGameOver
	}

	moves := p.game.Position().ValidMoves()
	for i := range moves {
		mv := &moves[i]
		if mv.S1() != s1 || mv.S2() != s2 {
			continue
		}
		if mv.Promo() != nchess.NoPieceType && mv.Promo() != promo {
			continue
		}
		return p.play(mv)
	}
	return nil, AppliedMove{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
}

// ApplySAN plays the legal move whose SAN matches san.
func (p *Position) ApplySAN(san string) (*Position, AppliedMove, error) {
	if p.IsGameOver() {
		return nil, AppliedMove{}, ErrGameOver
	}
	want := strings.TrimSpace(san)
	pos := p.game.Position()
	moves := pos.ValidMoves()
	notation := nchess.AlgebraicNotation{}
	for i := range moves {
		if notation.Encode(pos, &moves[i]) == want {
			return p.play(&moves[i])
		}
	}
	return nil, AppliedMove{}, fmt.Errorf("%w: %s", ErrIllegalMove, san)
}

func (p *Position) play(mv *nchess.Move) (*Position, AppliedMove, error) {
	pos := p.game.Position()
	applied := AppliedMove{
		From:     mv.S1().String(),
		To:       mv.S2().String(),
		SAN:      nchess.AlgebraicNotation{}.Encode(pos, mv),
		UCI:      nchess.UCINotation{}.Encode(pos, mv),
		Captured: mv.HasTag(nchess.Capture) || mv.HasTag(nchess.EnPassant),
	}

	clone := p.game.Clone()
	if err := clone.Move(mv, nil); err != nil {
		return nil, AppliedMove{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	next := &Position{
		game:    clone,
		history: append(p.History(), applied.UCI),
		sans:    append(p.HistorySAN(), applied.SAN),
	}
	applied.Check = next.IsCheck()
	applied.Mate = next.IsCheckmate()
	return next, applied, nil
}

// sanOf encodes mv through its legal counterpart so check and capture marks are present.
func sanOf(pos *nchess.Position, mv *nchess.Move) string {
	moves := pos.ValidMoves()
	for i := range moves {
		if moves[i].S1() == mv.S1() && moves[i].S2() == mv.S2() && moves[i].Promo() == mv.Promo() {
			return nchess.AlgebraicNotation{}.Encode(pos, &moves[i])
		}
	}
	return nchess.AlgebraicNotation{}.Encode(pos, mv)
}

func verbose(pos *nchess.Position, mv *nchess.Move) chess.VerboseMove {
	return chess.VerboseMove{
		From:     mv.S1().String(),
		To:       mv.S2().String(),
		Captured: mv.HasTag(nchess.Capture) || mv.HasTag(nchess.EnPassant),
		SAN:      nchess.AlgebraicNotation{}.Encode(pos, mv),
	}
}

func parsePromotion(s string) (nchess.PieceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "q", "queen":
		return nchess.Queen, nil
	case "r", "rook":
		return nchess.Rook, nil
	case "b", "bishop":
		return nchess.Bishop, nil
	case "n", "knight":
		return nchess.Knight, nil
	}
	return nchess.NoPieceType, fmt.Errorf("%w: promotion %q", ErrIllegalMove, s)
}

func toColor(c nchess.Color) chess.Color {
	if c == nchess.Black {
		return chess.Black
	}
	return chess.White
}

func fromColor(c chess.Color) nchess.Color {
	if c == chess.Black {
		return nchess.Black
	}
	return nchess.White
}
