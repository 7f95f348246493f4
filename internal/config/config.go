package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/park285/unicorn-chess/internal/chess"
)

type AppConfig struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	RedisURL string `mapstructure:"REDIS_URL"`

	SessionTTLSec     int    `mapstructure:"SESSION_TTL_SEC"`
	DefaultDifficulty string `mapstructure:"DEFAULT_DIFFICULTY"`
	DefaultLocale     string `mapstructure:"DEFAULT_LOCALE"`
	MessagesDir       string `mapstructure:"MESSAGES_DIR"`

	ThinkingDelayScale float64 `mapstructure:"THINKING_DELAY_SCALE"`
	AllowedOrigins     string  `mapstructure:"ALLOWED_ORIGINS"`
	RandomSeed         int64   `mapstructure:"RANDOM_SEED"`
}

var defaults = map[string]any{
	"HTTP_ADDR":            ":8080",
	"REDIS_URL":            "",
	"SESSION_TTL_SEC":      3600,
	"DEFAULT_DIFFICULTY":   "easy",
	"DEFAULT_LOCALE":       "en",
	"MESSAGES_DIR":         "",
	"THINKING_DELAY_SCALE": 1.0,
	"ALLOWED_ORIGINS":      "",
	"RANDOM_SEED":          0,
}

// Load reads the environment, layered over the file named by CONFIG_FILE when set.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, def := range defaults {
		v.SetDefault(k, def)
	}

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) normalize() {
	c.HTTPAddr = strings.TrimSpace(c.HTTPAddr)
	c.RedisURL = strings.TrimSpace(c.RedisURL)
	c.DefaultDifficulty = strings.ToLower(strings.TrimSpace(c.DefaultDifficulty))
	c.DefaultLocale = strings.ToLower(strings.TrimSpace(c.DefaultLocale))
	c.MessagesDir = strings.TrimSpace(c.MessagesDir)
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
}

func (c *AppConfig) Validate() error {
	if c.SessionTTLSec <= 0 {
		return errors.New("SESSION_TTL_SEC must be > 0")
	}
	if c.ThinkingDelayScale < 0 {
		return errors.New("THINKING_DELAY_SCALE must be >= 0")
	}
	if _, err := chess.ParseDifficulty(c.DefaultDifficulty); err != nil {
		return fmt.Errorf("DEFAULT_DIFFICULTY: %w", err)
	}
	return nil
}

func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

func (c *AppConfig) Difficulty() chess.Difficulty {
	d, err := chess.ParseDifficulty(c.DefaultDifficulty)
	if err != nil {
		return chess.Easy
	}
	return d
}

// Origins splits ALLOWED_ORIGINS into WebSocket origin patterns.
func (c *AppConfig) Origins() []string {
	var out []string
	for _, p := range strings.Split(c.AllowedOrigins, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
