package presenter

import (
	"context"
	"errors"
	"net/http"

	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/learn"
	"github.com/park285/unicorn-chess/internal/msgcat"
	"github.com/park285/unicorn-chess/internal/service/game"
	"github.com/park285/unicorn-chess/internal/session"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

type errorRule struct {
	target    error
	status    int
	code      string
	key       string
	retryable bool
}

// Order matters: the first matching rule wins.
var errorRules = []errorRule{
	{game.ErrIllegalMove, http.StatusUnprocessableEntity, gamedto.CodeIllegalMove, "game.invalid", false},
	{game.ErrInvalidSquare, http.StatusBadRequest, gamedto.CodeInvalidSquare, "game.invalid", false},
	{game.ErrGameOver, http.StatusConflict, gamedto.CodeGameOver, "game.finished", false},
	{game.ErrComputerThinking, http.StatusConflict, gamedto.CodeComputerThinking, "game.not_your_turn", true},
	{game.ErrNotYourTurn, http.StatusConflict, gamedto.CodeNotYourTurn, "game.not_your_turn", true},
	{game.ErrNoComputerTurn, http.StatusConflict, gamedto.CodeNoComputerTurn, "", false},
	{game.ErrGameNotFound, http.StatusNotFound, gamedto.CodeNotFound, "", false},
	{session.ErrConflict, http.StatusConflict, gamedto.CodeConflict, "", true},
	{chess.ErrUnknownDifficulty, http.StatusBadRequest, gamedto.CodeUnknownLevel, "", false},
	{learn.ErrUnknownPiece, http.StatusNotFound, gamedto.CodeNotFound, "", false},
	{learn.ErrUnknownStep, http.StatusNotFound, gamedto.CodeNotFound, "", false},
	{context.Canceled, 499, gamedto.CodeCancelled, "", true},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, gamedto.CodeCancelled, "", true},
}

// ToDomainError maps a service error to its wire form and HTTP status.
// Messages come from the catalog when a friendly line exists for the error.
func ToDomainError(err error, cat *msgcat.Catalog, locale string) (gamedto.DomainError, int) {
	var de gamedto.DomainError
	if errors.As(err, &de) {
		return de, http.StatusBadRequest
	}
	for _, r := range errorRules {
		if !errors.Is(err, r.target) {
			continue
		}
		msg := err.Error()
		if r.key != "" && cat != nil {
			msg = cat.Text(locale, r.key)
		}
		return gamedto.DomainError{Code: r.code, Message: msg, Retryable: r.retryable}, r.status
	}
	return gamedto.DomainError{Code: gamedto.CodeInternal, Message: "internal error", Retryable: true}, http.StatusInternalServerError
}
