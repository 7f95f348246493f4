package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/unicorn-chess/internal/apiclient"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

func main() {
	baseURL := os.Getenv("CHESS_BASE_URL")
	locale := os.Getenv("CHESS_LOCALE")
	difficulty := os.Getenv("CHESS_DIFFICULTY")
	if baseURL == "" {
		log.Fatal("CHESS_BASE_URL is required")
	}

	client := apiclient.NewClient(baseURL,
		apiclient.WithTimeout(8*time.Second),
		apiclient.WithRetry(2),
		apiclient.WithLocale(locale),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	h, err := client.Health(ctx)
	if err != nil {
		log.Fatalf("/healthz error: %v", err)
	}
	log.Printf("/healthz ok: store=%s locales=%v", h.Store, h.Locales)

	st, err := client.Start(ctx, difficulty, locale)
	if err != nil {
		log.Fatalf("start error: %v", err)
	}
	log.Printf("game %s started: difficulty=%s message=%q", st.ID, st.Difficulty, st.Message)

	hint, err := client.Hint(ctx, st.ID)
	if err != nil {
		log.Fatalf("hint error: %v", err)
	}
	if !hint.Found {
		log.Fatalf("no hint for opening position")
	}
	log.Printf("hint: %s (%s-%s)", hint.SAN, hint.From, hint.To)

	mv, err := client.Move(ctx, st.ID, hint.From, hint.To, "")
	if err != nil {
		log.Fatalf("move error: %v", err)
	}
	fmt.Printf("player: %s -> %q\n", mv.SAN, mv.State.Message)

	reply, err := client.ComputerMove(ctx, st.ID)
	if err != nil {
		log.Fatalf("computer move error: %v", err)
	}
	fmt.Printf("computer: %s -> %q\n", reply.SAN, reply.State.Message)

	png, err := client.Board(ctx, st.ID, false)
	if err != nil {
		log.Printf("board error: %v", err)
	} else {
		log.Printf("board ok: %d bytes", len(png))
	}

	if os.Getenv("CHESS_WS") == "" {
		log.Println("CHESS_WS not set; skipping WS check")
		return
	}
	checkStream(ctx, client, st.ID)
}

// checkStream asks for a hint over the game WebSocket and waits for the reply.
func checkStream(ctx context.Context, client *apiclient.Client, id string) {
	s, err := client.Stream(ctx, id)
	if err != nil {
		log.Printf("WS connect error: %v", err)
		return
	}
	defer func() { _ = s.Close() }()

	first, err := s.Await(ctx, gamedto.EventState)
	if err != nil {
		log.Printf("WS state error: %v", err)
		return
	}
	log.Printf("WS state: moves=%d turn=%s", len(first.State.MovesUCI), first.State.Turn)

	if err := s.Send(ctx, gamedto.ClientMessage{Type: gamedto.ClientHint}); err != nil {
		log.Printf("WS send error: %v", err)
		return
	}
	ev, err := s.Await(ctx, gamedto.EventHint)
	if err != nil {
		log.Printf("WS hint error: %v", err)
		return
	}
	log.Printf("WS hint: %s", ev.Hint.SAN)
}
