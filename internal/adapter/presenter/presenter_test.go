package presenter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/msgcat"
	"github.com/park285/unicorn-chess/internal/rules"
	"github.com/park285/unicorn-chess/internal/service/game"
	"github.com/park285/unicorn-chess/internal/session"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

func TestToDTOState(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st := &game.State{
		ID:              "g1",
		Difficulty:      chess.Hard,
		DifficultyLabel: "🌹 Hard",
		Locale:          "en",
		FEN:             rules.StartFEN,
		Turn:            chess.Black,
		Moves:           []string{"e2e4"},
		MovesSAN:        []string{"e4"},
		Status:          session.StatusPlaying,
		Message:         "thinking",
		Sound:           game.SoundMove,
		LastMove:        &game.LastMove{From: "e2", To: "e4"},
		ComputerPending: true,
		ComputerDueAt:   ts,
		StartedAt:       ts,
		UpdatedAt:       ts,
	}
	got := ToDTOState(st)
	due := ts
	want := &gamedto.GameState{
		ID:              "g1",
		Difficulty:      "hard",
		DifficultyLabel: "🌹 Hard",
		Locale:          "en",
		FEN:             rules.StartFEN,
		Turn:            "black",
		MovesUCI:        []string{"e2e4"},
		MovesSAN:        []string{"e4"},
		Status:          "playing",
		Message:         "thinking",
		Sound:           "move",
		LastMove:        &gamedto.Move{From: "e2", To: "e4"},
		ComputerPending: true,
		ComputerDueAt:   &due,
		Captured:        gamedto.Captured{ByPlayer: []string{}, ByComputer: []string{}},
		StartedAt:       ts,
		UpdatedAt:       ts,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if ToDTOState(nil) != nil {
		t.Fatalf("nil state should map to nil")
	}
}

func TestToDTOMoveFinished(t *testing.T) {
	m := &game.MoveResult{
		State: &game.State{Status: session.StatusWon, Turn: chess.Black},
		Move:  rules.AppliedMove{From: "h5", To: "f7", SAN: "Qxf7#", UCI: "h5f7", Captured: true, Check: true, Mate: true},
		By:    chess.White,
		Moved: true,
	}
	got := ToDTOMove(m)
	if !got.Finished || !got.Mate || got.By != "white" || got.SAN != "Qxf7#" {
		t.Fatalf("summary = %+v", got)
	}
}

func TestToDomainError(t *testing.T) {
	cat, err := msgcat.New("", "en")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	tests := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{fmt.Errorf("%w: e2e5", game.ErrIllegalMove), http.StatusUnprocessableEntity, gamedto.CodeIllegalMove, cat.Text("en", "game.invalid")},
		{game.ErrGameOver, http.StatusConflict, gamedto.CodeGameOver, cat.Text("en", "game.finished")},
		{game.ErrComputerThinking, http.StatusConflict, gamedto.CodeComputerThinking, cat.Text("en", "game.not_your_turn")},
		{fmt.Errorf("%w: x", session.ErrNotFound), http.StatusNotFound, gamedto.CodeNotFound, ""},
		{chess.ErrUnknownDifficulty, http.StatusBadRequest, gamedto.CodeUnknownLevel, ""},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, gamedto.CodeCancelled, ""},
		{errors.New("boom"), http.StatusInternalServerError, gamedto.CodeInternal, "internal error"},
	}
	for _, tc := range tests {
		de, status := ToDomainError(tc.err, cat, "en")
		if status != tc.status || de.Code != tc.code {
			t.Fatalf("%v: got %d %s", tc.err, status, de.Code)
		}
		if tc.msg != "" && de.Message != tc.msg {
			t.Fatalf("%v: message = %q", tc.err, de.Message)
		}
	}
}

func TestToDTODifficulties(t *testing.T) {
	cat, _ := msgcat.New("", "en")
	got := ToDTODifficulties(cat, "en")
	if len(got) != 3 || got[0].Name != "easy" || got[2].Label != "🌹 Hard" || got[1].ThinkingDelay != 1000 {
		t.Fatalf("difficulties = %+v", got)
	}
}
