package logger

import (
	"io"
	"os"

	"golang.org/x/exp/slog"

	"medtracker/internal/app/client/config"
	"medtracker/internal/utils/logger/handlers/slogpretty"
)

// New создает логгер для окружения: local - цветной вывод,
// dev - JSON с DEBUG, prod - JSON с INFO.
func New(env string) *slog.Logger {
	return build(env, "", os.Stderr)
}

// NewWithLevel как New, но непустой level (LOG_LEVEL) заменяет уровень окружения.
func NewWithLevel(env, level string) *slog.Logger {
	return build(env, level, os.Stderr)
}

func NewWithWriter(env string, out io.Writer) *slog.Logger {
	return build(env, "", out)
}

func build(env, level string, out io.Writer) *slog.Logger {
	var lvl slog.Level
	switch env {
	case config.EnvLocal, config.EnvDev:
		lvl = slog.LevelDebug
	default:
		lvl = slog.LevelInfo
	}
	if level != "" {
		lvl = ParseLevel(level)
	}

	if env == config.EnvLocal {
		return setupPrettySlogTo(out, lvl)
	}

	return slog.New(
		slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl}),
	)
}

// ParseLevel переводит LOG_LEVEL в уровень slog. Неизвестное значение дает INFO.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func setupPrettySlogTo(out io.Writer, level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(out)

	return slog.New(handler)
}
