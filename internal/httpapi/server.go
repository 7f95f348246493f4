package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/park285/unicorn-chess/internal/learn"
	"github.com/park285/unicorn-chess/internal/msgcat"
	"github.com/park285/unicorn-chess/internal/render"
	"github.com/park285/unicorn-chess/internal/service/game"
)

type Deps struct {
	Games    *game.Service
	Learn    *learn.Library
	Catalog  *msgcat.Catalog
	Renderer render.BoardRenderer
	// StoreName is reported by /healthz ("redis" or "memory").
	StoreName string
	// Origins are the WebSocket origin patterns; empty allows same-host only.
	Origins []string
	Logger  *zap.Logger
}

type Server struct {
	games     *game.Service
	learn     *learn.Library
	catalog   *msgcat.Catalog
	renderer  render.BoardRenderer
	storeName string
	origins   []string
	logger    *zap.Logger
}

func NewServer(d Deps) (*Server, error) {
	switch {
	case d.Games == nil:
		return nil, fmt.Errorf("game service is required")
	case d.Learn == nil:
		return nil, fmt.Errorf("learn library is required")
	case d.Catalog == nil:
		return nil, fmt.Errorf("message catalog is required")
	case d.Renderer == nil:
		return nil, fmt.Errorf("board renderer is required")
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		games:     d.Games,
		learn:     d.Learn,
		catalog:   d.Catalog,
		renderer:  d.Renderer,
		storeName: d.StoreName,
		origins:   append([]string(nil), d.Origins...),
		logger:    logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/difficulties", s.handleDifficulties)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handleStart)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleState)
				r.Post("/moves", s.handleMove)
				r.Post("/computer", s.handleComputer)
				r.Post("/hint", s.handleHint)
				r.Post("/select", s.handleSelect)
				r.Post("/difficulty", s.handleDifficulty)
				r.Post("/reset", s.handleReset)
				r.Post("/resign", s.handleResign)
				r.Get("/board.png", s.handleBoard)
				r.Get("/ws", s.handleWS)
			})
		})

		r.Route("/learn/pieces", func(r chi.Router) {
			r.Get("/", s.handlePieces)
			r.Get("/{name}", s.handlePiece)
			r.Get("/{name}/board.png", s.handlePieceBoard)
		})
		r.Route("/tutorial", func(r chi.Router) {
			r.Get("/", s.handleTutorial)
			r.Get("/{step}", s.handleStep)
			r.Get("/{step}/board.png", s.handleStepBoard)
		})
	})
	return r
}

// requestLogger logs one line per request once the handler returns.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http_request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("http_panic",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
