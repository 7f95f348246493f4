package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/park285/unicorn-chess/internal/chess"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	s, err := OpenRedis(context.Background(), fmt.Sprintf("redis://%s/0", mr.Addr()), time.Minute)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func samplePayload(id string) *Payload {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &Payload{
		ID:         id,
		Difficulty: chess.Medium,
		Locale:     "en",
		Moves:      []string{"e2e4", "e7e5"},
		Status:     StatusPlaying,
		Message:    "hi",
		StartedAt:  ts,
		UpdatedAt:  ts,
	}
}

func stores(t *testing.T) map[string]Store {
	rs, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(time.Minute),
		"redis":  rs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := samplePayload("g1")
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Load(ctx, "g1")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load: want ErrNotFound, got %v", err)
			}
			_, err := s.Update(ctx, "missing", func(*Payload) error { return nil })
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Update: want ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Save(ctx, samplePayload("g1")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Update(ctx, "g1", func(p *Payload) error {
				p.Moves = append(p.Moves, "g1f3")
				p.Status = StatusWon
				return nil
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if len(got.Moves) != 3 || got.Status != StatusWon {
				t.Fatalf("update result = %+v", got)
			}
			reloaded, err := s.Load(ctx, "g1")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(got, reloaded); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreUpdateAbort(t *testing.T) {
	boom := errors.New("boom")
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Save(ctx, samplePayload("g1")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			_, err := s.Update(ctx, "g1", func(p *Payload) error {
				p.Moves = nil
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("want boom, got %v", err)
			}
			got, _ := s.Load(ctx, "g1")
			if len(got.Moves) != 2 {
				t.Fatalf("aborted update was persisted: %+v", got.Moves)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = s.Save(ctx, samplePayload("g1"))
			if err := s.Delete(ctx, "g1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Load(ctx, "g1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("want ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreConcurrentUpdates(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := samplePayload("g1")
			p.Moves = nil
			_ = s.Save(ctx, p)

			const workers = 4
			var wg sync.WaitGroup
			var mu sync.Mutex
			applied := 0
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.Update(ctx, "g1", func(p *Payload) error {
						p.Moves = append(p.Moves, "x")
						return nil
					})
					if err == nil {
						mu.Lock()
						applied++
						mu.Unlock()
					} else if !errors.Is(err, ErrConflict) {
						t.Errorf("Update: %v", err)
					}
				}()
			}
			wg.Wait()
			got, err := s.Load(ctx, "g1")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got.Moves) != applied {
				t.Fatalf("moves = %d, successful updates = %d", len(got.Moves), applied)
			}
		})
	}
}

func TestRedisTTL(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, samplePayload("g1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ttl := mr.TTL(gameKey("g1")); ttl != time.Minute {
		t.Fatalf("ttl = %s", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.Load(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after expiry, got %v", err)
	}
}

func TestMemoryTTL(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()
	_ = m.Save(ctx, samplePayload("g1"))
	now = now.Add(30 * time.Second)
	if _, err := m.Load(ctx, "g1"); err != nil {
		t.Fatalf("Load before expiry: %v", err)
	}
	now = now.Add(time.Minute)
	if _, err := m.Load(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after expiry, got %v", err)
	}
}

func TestMemoryDropsExpiredEntries(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()
	_ = m.Save(ctx, samplePayload("g1"))
	_ = m.Save(ctx, samplePayload("g2"))

	now = now.Add(2 * time.Minute)
	if _, err := m.Load(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, ok := m.items["g1"]; ok {
		t.Fatalf("expired g1 still held after Load")
	}

	_ = m.Save(ctx, samplePayload("g3"))
	if len(m.items) != 1 {
		t.Fatalf("items after sweep = %d, want 1", len(m.items))
	}
	if _, ok := m.items["g3"]; !ok {
		t.Fatalf("fresh g3 missing")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	m := NewMemoryStore(0)
	ctx := context.Background()
	_ = m.Save(ctx, samplePayload("g1"))
	got, _ := m.Load(ctx, "g1")
	got.Moves[0] = "a2a3"
	again, _ := m.Load(ctx, "g1")
	if again.Moves[0] != "e2e4" {
		t.Fatalf("stored payload was mutated through Load")
	}
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		raw     string
		addr    string
		db      int
		pass    string
		tls     bool
		wantErr bool
	}{
		{raw: "redis://localhost:6379/0", addr: "localhost:6379"},
		{raw: "redis://:secret@cache:6380/2", addr: "cache:6380", db: 2, pass: "secret"},
		{raw: "rediss://cache:6380", addr: "cache:6380", tls: true},
		{raw: " redis://user:pw@cache ", addr: "cache:6379", pass: "pw"},
		{raw: "http://cache", wantErr: true},
		{raw: "redis://cache/x", wantErr: true},
	}
	for _, tc := range tests {
		opts, err := parseRedisURL(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if opts.Addr != tc.addr || opts.DB != tc.db || opts.Password != tc.pass || (opts.TLSConfig != nil) != tc.tls {
			t.Fatalf("%s: got %+v", tc.raw, opts)
		}
	}
}

func TestStatusFinished(t *testing.T) {
	if StatusPlaying.Finished() {
		t.Fatalf("playing reported finished")
	}
	for _, s := range []Status{StatusWon, StatusLost, StatusDraw, StatusResigned} {
		if !s.Finished() {
			t.Fatalf("%s not finished", s)
		}
	}
}
