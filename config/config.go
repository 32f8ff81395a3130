package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"led-inspect/internal/logging"
)

const (
	DefaultBaseURL         = "http://localhost:5000"
	DefaultAnalysisTimeout = 60 * time.Second
)

type Config struct {
	TelegramToken    string
	BaseURL          string        // адрес сервера инспекции
	DefaultProductID int64         // продукт по умолчанию, 0 если не задан
	AnalysisTimeout  time.Duration // сколько ждать ответа анализа
	LogLevel         slog.Level
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из переменных окружения, getenv подменяется в тестах.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken:   strings.TrimSpace(getenv("TELEGRAM_TOKEN")),
		BaseURL:         strings.TrimSpace(getenv("INSPECTION_BASE_URL")),
		AnalysisTimeout: DefaultAnalysisTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if v := strings.TrimSpace(getenv("INSPECTION_PRODUCT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid INSPECTION_PRODUCT_ID %q", v)
		}
		cfg.DefaultProductID = id
	}

	if v := strings.TrimSpace(getenv("ANALYSIS_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid ANALYSIS_TIMEOUT %q", v)
		}
		cfg.AnalysisTimeout = d
	}

	level, err := logging.ParseLevel(getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}
