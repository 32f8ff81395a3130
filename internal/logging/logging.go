// Package logging собирает slog-логгеры приложения.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel переводит строку из конфига в уровень slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New создаёт текстовый логгер с заданным уровнем.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Component возвращает логгер с меткой компонента.
// nil превращается в логгер, который ничего не пишет.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With("component", name)
}

// Discard логгер для тестов и случаев, когда логирование не настроено.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
