package chessbuilder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/park285/unicorn-chess/internal/chess"
	"github.com/park285/unicorn-chess/internal/config"
	"github.com/park285/unicorn-chess/internal/httpapi"
	"github.com/park285/unicorn-chess/internal/learn"
	"github.com/park285/unicorn-chess/internal/msgcat"
	"github.com/park285/unicorn-chess/internal/render"
	"github.com/park285/unicorn-chess/internal/service/game"
	"github.com/park285/unicorn-chess/internal/session"
)

type Deps struct {
	Games     *game.Service
	Learn     *learn.Library
	Catalog   *msgcat.Catalog
	Store     session.Store
	StoreName string
	Server    *httpapi.Server
}

const redisDialTimeout = 5 * time.Second

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(cfg.MessagesDir, cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	// Sessions: Redis when configured, otherwise in-process.
	var (
		store     session.Store
		storeName string
	)
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		rs, err := session.OpenRedis(ctx, cfg.RedisURL, cfg.SessionTTL())
		cancel()
		if err != nil {
			return nil, fmt.Errorf("init redis store: %w", err)
		}
		store, storeName = rs, "redis"
	} else {
		logger.Warn("redis_url_empty_using_memory_store")
		store, storeName = session.NewMemoryStore(cfg.SessionTTL()), "memory"
	}

	renderer := render.NewBoardRenderer()
	games, err := game.NewService(store, chess.NewAdvisor(cfg.RandomSeed), catalog, renderer, game.Config{
		DefaultDifficulty: cfg.Difficulty(),
		DefaultLocale:     catalog.Default(),
		DelayScale:        cfg.ThinkingDelayScale,
	}, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init game service: %w", err)
	}

	library := learn.NewLibrary(catalog)
	srv, err := httpapi.NewServer(httpapi.Deps{
		Games:     games,
		Learn:     library,
		Catalog:   catalog,
		Renderer:  renderer,
		StoreName: storeName,
		Origins:   cfg.Origins(),
		Logger:    logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init http server: %w", err)
	}

	logger.Info("chess_deps_ready",
		zap.String("store", storeName),
		zap.Strings("locales", catalog.Locales()),
		zap.String("difficulty", cfg.Difficulty().String()),
		zap.Float64("delay_scale", cfg.ThinkingDelayScale),
	)
	return &Deps{
		Games:     games,
		Learn:     library,
		Catalog:   catalog,
		Store:     store,
		StoreName: storeName,
		Server:    srv,
	}, nil
}

func (d *Deps) Close() error {
	if d == nil || d.Store == nil {
		return nil
	}
	if err := d.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
