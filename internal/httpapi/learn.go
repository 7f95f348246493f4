package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/park285/unicorn-chess/internal/adapter/presenter"
	"github.com/park285/unicorn-chess/internal/learn"
	"github.com/park285/unicorn-chess/internal/render"
	"github.com/park285/unicorn-chess/internal/rules"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

func (s *Server) handlePieces(w http.ResponseWriter, r *http.Request) {
	pieces := s.learn.Pieces(s.locale(r))
	out := make([]gamedto.Piece, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, presenter.ToDTOPiece(p, nil, nil))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePiece(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.learn.Piece(s.locale(r), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	demo, err := s.learn.DemoMoves(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hl, err := s.learn.DemoHighlights(name, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOPiece(p, demo, hl))
}

func (s *Server) handlePieceBoard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	fen, err := learn.DiagramFEN(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hl, err := s.learn.DemoHighlights(name, queryBool(r, "moves"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderFEN(w, r, fen, hl)
}

func (s *Server) handleTutorial(w http.ResponseWriter, r *http.Request) {
	steps := s.learn.Steps(s.locale(r))
	out := make([]gamedto.TutorialStep, 0, len(steps))
	for _, st := range steps {
		out = append(out, presenter.ToDTOStep(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stepParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "step")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", learn.ErrUnknownStep, raw)
	}
	return i, nil
}

// tutorialStep resolves {step}, moving one step with ?dir=next|prev. Navigation clamps at either end.
func (s *Server) tutorialStep(r *http.Request) (learn.Step, error) {
	i, err := s.stepParam(r)
	if err != nil {
		return learn.Step{}, err
	}
	locale := s.locale(r)
	st, err := s.learn.Step(locale, i)
	if err != nil {
		return learn.Step{}, err
	}
	switch dir := r.URL.Query().Get("dir"); dir {
	case "":
		return st, nil
	case "next":
		return s.learn.Next(locale, i), nil
	case "prev":
		return s.learn.Prev(locale, i), nil
	default:
		return learn.Step{}, badRequest(fmt.Sprintf("dir must be next or prev: %q", dir))
	}
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	st, err := s.tutorialStep(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ToDTOStep(st))
}

func (s *Server) handleStepBoard(w http.ResponseWriter, r *http.Request) {
	st, err := s.tutorialStep(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderFEN(w, r, st.FEN, st.Highlights)
}

func (s *Server) renderFEN(w http.ResponseWriter, r *http.Request, fen string, hl []render.Highlight) {
	board, err := rules.BoardFromFEN(fen)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	png, err := s.renderer.RenderPNG(r.Context(), board, render.Options{
		Theme:      render.ThemeByName(r.URL.Query().Get("theme")),
		Flip:       queryBool(r, "flip"),
		Highlights: hl,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, png)
}
