package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/unicorn-chess/pkg/gamedto"
)

// Stream is a live game connection.
type Stream struct {
	conn *websocket.Conn
}

// Stream dials the game's WebSocket. The server pushes the current state first.
func (c *Client) Stream(ctx context.Context, id string) (*Stream, error) {
	wsURL := c.baseURL
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}
	header := http.Header{}
	if c.locale != "" {
		header.Set("Accept-Language", c.locale)
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, wsURL+gamePath(id, "/ws"), &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      header,
	})
	if err != nil {
		return nil, fmt.Errorf("dial game stream: %w", err)
	}
	return &Stream{conn: conn}, nil
}

func (s *Stream) Send(ctx context.Context, msg gamedto.ClientMessage) error {
	return wsjson.Write(ctx, s.conn, msg)
}

func (s *Stream) Next(ctx context.Context) (gamedto.ServerEvent, error) {
	var ev gamedto.ServerEvent
	err := wsjson.Read(ctx, s.conn, &ev)
	return ev, err
}

// Await reads until an event of kind arrives. Error events end the wait.
func (s *Stream) Await(ctx context.Context, kind string) (gamedto.ServerEvent, error) {
	for {
		ev, err := s.Next(ctx)
		if err != nil {
			return ev, err
		}
		if ev.Type == kind {
			return ev, nil
		}
		if ev.Type == gamedto.EventError && ev.Error != nil {
			return ev, &APIError{Status: 0, DomainError: *ev.Error}
		}
	}
}

func (s *Stream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "bye")
}
