package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/unicorn-chess/internal/adapter/presenter"
	"github.com/park285/unicorn-chess/internal/service/game"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

const wsWriteTimeout = 5 * time.Second

// handleWS runs one game over a WebSocket. Every client message gets its
// result pushed back; a player move is followed by "thinking" and then the
// computer's reply.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.games.State(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	locale := s.locale(r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  s.origins,
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		s.logger.Warn("ws_accept_failed", zap.String("game_id", id), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	s.logger.Info("ws_open", zap.String("game_id", id))
	if err := s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventState, State: presenter.ToDTOState(st)}); err != nil {
		return
	}

	for {
		var msg gamedto.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				s.logger.Info("ws_close", zap.String("game_id", id))
			default:
				if !errors.Is(err, context.Canceled) {
					s.logger.Warn("ws_read_failed", zap.String("game_id", id), zap.Error(err))
				}
			}
			return
		}
		if err := s.dispatch(ctx, conn, id, locale, msg); err != nil {
			s.logger.Warn("ws_write_failed", zap.String("game_id", id), zap.Error(err))
			return
		}
	}
}

// dispatch returns an error only when the connection itself failed.
func (s *Server) dispatch(ctx context.Context, conn *websocket.Conn, id, locale string, msg gamedto.ClientMessage) error {
	switch strings.ToLower(strings.TrimSpace(msg.Type)) {
	case gamedto.ClientMove:
		res, err := s.games.PlayerMove(ctx, id, msg.From, msg.To, msg.Promotion)
		if err != nil {
			return s.pushError(ctx, conn, locale, err)
		}
		if err := s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventMove, Move: presenter.ToDTOMove(res)}); err != nil {
			return err
		}
		if !res.State.ComputerPending {
			return nil
		}
		if err := s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventThinking, State: presenter.ToDTOState(res.State)}); err != nil {
			return err
		}
		reply, err := s.games.ComputerMove(ctx, id)
		if err != nil {
			return s.pushError(ctx, conn, locale, err)
		}
		return s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventComputer, Move: presenter.ToDTOMove(reply)})
	case gamedto.ClientHint:
		res, err := s.games.Hint(ctx, id)
		if err != nil {
			return s.pushError(ctx, conn, locale, err)
		}
		return s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventHint, Hint: presenter.ToDTOHint(res)})
	case gamedto.ClientSelect:
		sel, err := s.games.SelectSquare(ctx, id, msg.Square)
		if err != nil {
			return s.pushError(ctx, conn, locale, err)
		}
		return s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventSelection, Selection: presenter.ToDTOSelection(sel)})
	case gamedto.ClientReset:
		return s.pushState(ctx, conn, locale, func() (*game.State, error) { return s.games.Reset(ctx, id) })
	case gamedto.ClientResign:
		return s.pushState(ctx, conn, locale, func() (*game.State, error) { return s.games.Resign(ctx, id) })
	}
	return s.pushError(ctx, conn, locale, badRequest("unknown message type "+msg.Type))
}

func (s *Server) pushState(ctx context.Context, conn *websocket.Conn, locale string, fn func() (*game.State, error)) error {
	st, err := fn()
	if err != nil {
		return s.pushError(ctx, conn, locale, err)
	}
	return s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventState, State: presenter.ToDTOState(st)})
}

func (s *Server) pushError(ctx context.Context, conn *websocket.Conn, locale string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	de, _ := presenter.ToDomainError(err, s.catalog, locale)
	return s.push(ctx, conn, gamedto.ServerEvent{Type: gamedto.EventError, Error: &de})
}

func (s *Server) push(ctx context.Context, conn *websocket.Conn, ev gamedto.ServerEvent) error {
	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(wctx, conn, ev)
}
