package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port            string
	LogLevel        zapcore.Level
	LogFormat       string
	BroadcastFPS    int
	CountdownFrom   int
	CountdownStep   time.Duration
	WinThreshold    int
	InboundRate     float64
	InboundBurst    int
	OutboxSize      int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for
// unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	var errs []error
	atoi := func(k, def string, floor int) int {
		n, err := strconv.Atoi(get(k, def))
		if err != nil || n < floor {
			errs = append(errs, fmt.Errorf("%s: want integer >= %d, got %q", k, floor, get(k, def)))
		}
		return n
	}
	duration := func(k, def string) time.Duration {
		d, err := time.ParseDuration(get(k, def))
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s: want duration, got %q", k, get(k, def)))
		}
		return d
	}

	cfg := Config{
		Port:            get("PORT", "3000"),
		LogFormat:       get("LOG_FORMAT", "json"),
		BroadcastFPS:    atoi("BROADCAST_FPS", "60", 1),
		CountdownFrom:   atoi("COUNTDOWN_FROM", "5", 0),
		CountdownStep:   duration("COUNTDOWN_STEP", "750ms"),
		WinThreshold:    atoi("WIN_THRESHOLD", "1", 1),
		InboundBurst:    atoi("INBOUND_BURST", "30", 1),
		OutboxSize:      atoi("OUTBOX_SIZE", "16", 1),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", "5s"),
	}

	rate, err := strconv.ParseFloat(get("INBOUND_RATE", "120"), 64)
	if err != nil || rate <= 0 {
		errs = append(errs, fmt.Errorf("INBOUND_RATE: want positive number, got %q", get("INBOUND_RATE", "120")))
	}
	cfg.InboundRate = rate

	lvl, err := zapcore.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	cfg.LogLevel = lvl

	switch cfg.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: want json or console, got %q", cfg.LogFormat))
	}

	for _, o := range strings.Split(get("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// Logger builds the process logger described by LogFormat and LogLevel.
func (c Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return zc.Build()
}
