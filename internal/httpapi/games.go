package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/park285/unicorn-chess/internal/adapter/presenter"
	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/service/game"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gamedto.Health{OK: true, Store: s.storeName, Locales: s.catalog.Locales()})
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presenter.ToDTODifficulties(s.catalog, s.locale(r)))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req gamedto.StartRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var d chess.Difficulty
	if strings.TrimSpace(req.Difficulty) != "" {
		parsed, err := chess.ParseDifficulty(req.Difficulty)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		d = parsed
	}
	locale := req.Locale
	if strings.TrimSpace(locale) == "" {
		locale = s.locale(r)
	}
	st, err := s.games.Start(r.Context(), d, locale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, presenter.ToDTOState(st))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOState(st))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req gamedto.MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.From == "" || req.To == "" {
		s.writeError(w, r, badRequest("from and to are required"))
		return
	}
	res, err := s.games.PlayerMove(r.Context(), chi.URLParam(r, "id"), req.From, req.To, req.Promotion)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOMove(res))
}

// handleComputer holds the request open for the computer's thinking delay.
func (s *Server) handleComputer(w http.ResponseWriter, r *http.Request) {
	res, err := s.games.ComputerMove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOMove(res))
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	res, err := s.games.Hint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOHint(res))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req gamedto.SelectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sel, err := s.games.SelectSquare(r.Context(), chi.URLParam(r, "id"), req.Square)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOSelection(sel))
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	var req gamedto.DifficultyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := chess.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.games.ChangeDifficulty(r.Context(), chi.URLParam(r, "id"), d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOState(st))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOState(st))
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.Resign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOState(st))
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	png, err := s.games.Board(r.Context(), chi.URLParam(r, "id"), game.BoardOptions{
		Theme:    q.Get("theme"),
		Flip:     queryBool(r, "flip"),
		ShowHint: queryBool(r, "hint"),
		Selected: q.Get("select"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, png)
}
