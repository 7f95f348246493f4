package rules

import (
	"errors"
	"math/rand"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/park285/unicorn-chess/internal/chess"
)

const backRankMateFEN = "6k1/5ppp/8/8/8/8/4R3/4R1K1 w - - 0 1"

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	p, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestStartPosition(t *testing.T) {
	p := New()
	if got := len(p.LegalMoves()); got != 20 {
		t.Fatalf("start position has %d moves, want 20", got)
	}
	if got := len(p.LegalMovesVerbose()); got != 20 {
		t.Fatalf("verbose start position has %d moves, want 20", got)
	}
	if p.SideToMove() != chess.White {
		t.Fatalf("side to move = %s", p.SideToMove())
	}
	if p.IsCheck() || p.IsCheckmate() || p.IsDraw() || p.IsGameOver() {
		t.Fatalf("start position reported as terminal or check")
	}
	if p.FEN() != StartFEN {
		t.Fatalf("fen = %q", p.FEN())
	}
}

func TestEnumerationIsIdempotent(t *testing.T) {
	p := mustFEN(t, backRankMateFEN)
	first := p.LegalMoves()
	second := p.LegalMoves()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("enumeration changed (-first +second):\n%s", diff)
	}
	if p.FEN() != backRankMateFEN {
		t.Fatalf("enumeration mutated position: %s", p.FEN())
	}
}

func TestSelectMoveFindsBackRankMate(t *testing.T) {
	p := mustFEN(t, backRankMateFEN)
	if !contains(p.LegalMoves(), "Re8#") {
		t.Fatalf("Re8# missing from %v", p.LegalMoves())
	}
	for _, d := range chess.AllDifficulties() {
		for seed := int64(1); seed <= 50; seed++ {
			mv, ok := chess.SelectMove(p, d, rand.New(rand.NewSource(seed)))
			if !ok || mv != "Re8#" {
				t.Fatalf("%s seed %d: got %q", d, seed, mv)
			}
		}
	}
}

func TestApplyMate(t *testing.T) {
	p := mustFEN(t, backRankMateFEN)
	next, applied, err := p.Apply("e2", "e8", "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := AppliedMove{From: "e2", To: "e8", SAN: "Re8#", UCI: "e2e8", Check: true, Mate: true}
	if diff := cmp.Diff(want, applied); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
	if !next.IsCheckmate() || !next.IsGameOver() || next.Outcome() != WhiteWins {
		t.Fatalf("expected white to have mated, outcome=%q", next.Outcome())
	}
	if len(next.LegalMoves()) != 0 {
		t.Fatalf("mated side should have no moves")
	}
	if _, ok := chess.SelectMove(next, chess.Hard, rand.New(rand.NewSource(1))); ok {
		t.Fatalf("expected no move after mate")
	}
	if _, _, err := next.Apply("g8", "h8", ""); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if p.FEN() != backRankMateFEN || len(p.History()) != 0 {
		t.Fatalf("Apply mutated the original position")
	}
}

func TestIsCheck(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want bool
	}{
		{"rook on file", "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1", true},
		{"blocked rook", "4k3/4p3/8/8/8/8/8/4R1K1 b - - 0 1", false},
		{"bishop diagonal", "4k3/8/8/1B6/8/8/8/6K1 b - - 0 1", true},
		{"knight", "4k3/8/3N4/8/8/8/8/6K1 b - - 0 1", true},
		{"white pawn on black king", "4k3/3P4/8/8/8/8/8/6K1 b - - 0 1", true},
		{"black pawn on white king", "4k3/8/8/8/8/8/5p2/6K1 w - - 0 1", true},
		{"pawn in front", "4k3/4P3/8/8/8/8/8/6K1 b - - 0 1", false},
		{"quiet", "4k3/8/8/8/8/8/8/6K1 w - - 0 1", false},
	}
	for _, tc := range cases {
		if got := mustFEN(t, tc.fen).IsCheck(); got != tc.want {
			t.Fatalf("%s: IsCheck = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStalemate(t *testing.T) {
	p := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if p.IsCheck() || p.IsCheckmate() {
		t.Fatalf("stalemate reported as check")
	}
	if !p.IsDraw() || !p.IsGameOver() || p.Outcome() != Drawn {
		t.Fatalf("expected a drawn, finished game")
	}
	if p.DrawReason() == "" {
		t.Fatalf("missing draw reason")
	}
	if _, ok := chess.SuggestHint(p, rand.New(rand.NewSource(1))); ok {
		t.Fatalf("expected no hint in stalemate")
	}
}

func TestThreefoldRepetitionIsDraw(t *testing.T) {
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	p, err := Replay("", shuffle)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !p.IsDraw() || !p.IsGameOver() {
		t.Fatalf("threefold repetition should count as a draw")
	}
}

func TestApplyErrors(t *testing.T) {
	p := New()
	if _, _, err := p.Apply("e2", "e5", ""); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if _, _, err := p.Apply("z9", "e4", ""); !errors.Is(err, ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}
	if _, _, err := p.Apply("e7", "e5", ""); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("moving the opponent's piece should be illegal, got %v", err)
	}
	if _, err := FromFEN("not a fen"); !errors.Is(err, ErrInvalidFEN) {
		t.Fatalf("expected ErrInvalidFEN, got %v", err)
	}
	if _, err := Replay("", []string{"e2e4", "e2e4"}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove on replay, got %v", err)
	}
}

func TestPromotion(t *testing.T) {
	p := mustFEN(t, "8/P7/8/8/8/8/8/4k1K1 w - - 0 1")
	_, queen, err := p.Apply("a7", "a8", "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if queen.SAN != "a8=Q" || queen.UCI != "a7a8q" {
		t.Fatalf("default promotion = %+v", queen)
	}
	_, knight, err := p.Apply("a7", "a8", "n")
	if err != nil {
		t.Fatalf("Apply knight: %v", err)
	}
	if knight.SAN != "a8=N" {
		t.Fatalf("knight promotion = %+v", knight)
	}
	if _, _, err := p.Apply("a7", "a8", "k"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for king promotion, got %v", err)
	}
}

func TestReplayHistory(t *testing.T) {
	p, err := Replay("", []string{"e2e4", "E7E5 "})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if diff := cmp.Diff([]string{"e2e4", "e7e5"}, p.History()); diff != "" {
		t.Fatalf("history (-want +got):\n%s", diff)
	}
	from, to, ok := p.LastMove()
	if !ok || from != "e7" || to != "e5" {
		t.Fatalf("last move = %s%s ok=%v", from, to, ok)
	}
	if p.SideToMove() != chess.White {
		t.Fatalf("side to move = %s", p.SideToMove())
	}
	next, applied, err := p.ApplySAN("Nf3")
	if err != nil {
		t.Fatalf("ApplySAN: %v", err)
	}
	if applied.UCI != "g1f3" || len(next.History()) != 3 || len(p.History()) != 2 {
		t.Fatalf("ApplySAN result %+v history=%v", applied, next.History())
	}
	if diff := cmp.Diff([]string{"e4", "e5", "Nf3"}, next.HistorySAN()); diff != "" {
		t.Fatalf("san history (-want +got):\n%s", diff)
	}
	if _, _, err := p.ApplySAN("Nf6"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestReplayHistorySANMarksCheckAndMate(t *testing.T) {
	p, err := Replay("", []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	want := []string{"e4", "e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7#"}
	if diff := cmp.Diff(want, p.HistorySAN()); diff != "" {
		t.Fatalf("san history (-want +got):\n%s", diff)
	}
	if len(p.HistorySAN()) != len(p.History()) {
		t.Fatalf("san %v and uci %v differ in length", p.HistorySAN(), p.History())
	}
}

func TestMovesFrom(t *testing.T) {
	moves, err := New().MovesFrom("g1")
	if err != nil {
		t.Fatalf("MovesFrom: %v", err)
	}
	var targets []string
	for _, mv := range moves {
		targets = append(targets, mv.To)
	}
	if !contains(targets, "f3") || !contains(targets, "h3") || len(targets) != 2 {
		t.Fatalf("knight targets = %v", targets)
	}
	if moves, _ := New().MovesFrom("e4"); len(moves) != 0 {
		t.Fatalf("empty square has moves: %v", moves)
	}
}

func TestCaptureFlag(t *testing.T) {
	p, err := Replay("", []string{"e2e4", "d7d5"})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	for _, mv := range p.LegalMovesVerbose() {
		if mv.SAN == "exd5" {
			if !mv.Captured || mv.From != "e4" || mv.To != "d5" {
				t.Fatalf("capture verbose = %+v", mv)
			}
			return
		}
	}
	t.Fatalf("exd5 missing")
}

func TestKingSquareAndOpening(t *testing.T) {
	p, err := Replay("", []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if p.KingSquare(chess.White) != "e1" || p.KingSquare(chess.Black) != "e8" {
		t.Fatalf("king squares = %s %s", p.KingSquare(chess.White), p.KingSquare(chess.Black))
	}
	if code, title := p.Opening(); code == "" || title == "" {
		t.Fatalf("expected an opening label, got %q %q", code, title)
	}
	if code, _ := New().Opening(); code != "" {
		t.Fatalf("start position has opening %q", code)
	}
}

func TestBoardFromFENWithoutKings(t *testing.T) {
	board, err := BoardFromFEN("8/8/8/4N3/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("BoardFromFEN: %v", err)
	}
	sq, _ := ParseSquare("e5")
	if pc := board.Piece(sq); pc.Type() != nchess.Knight || pc.Color() != nchess.White {
		t.Fatalf("e5 = %v", pc)
	}
	if _, err := BoardFromFEN(""); !errors.Is(err, ErrInvalidFEN) {
		t.Fatalf("expected ErrInvalidFEN, got %v", err)
	}
}
