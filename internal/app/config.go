package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config описывает настройки запуска сервиса заказов.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// PostgresDSN пустой — используется in-memory хранилище.
	PostgresDSN string

	// KafkaBrokers пустой — outbox worker не запускается.
	KafkaBrokers []string
	KafkaTopic   string

	// ReservationBaseURL и PaymentBaseURL пустые — используются mock-клиенты.
	ReservationBaseURL string
	PaymentBaseURL     string
	ExternalTimeout    time.Duration

	UnitPriceMinor int64
	PriceCurrency  string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	LogLevel string
}

// LoadConfig читает .env (если есть) и переменные окружения.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Debug("no .env file loaded")
	}

	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		MetricsAddr:        getenv("METRICS_ADDR", ":9090"),
		PostgresDSN:        getenv("POSTGRES_DSN", ""),
		KafkaBrokers:       splitCSV(getenv("KAFKA_BROKERS", "")),
		KafkaTopic:         getenv("KAFKA_TOPIC", ""),
		ReservationBaseURL: getenv("RESERVATION_BASE_URL", ""),
		PaymentBaseURL:     getenv("PAYMENT_BASE_URL", ""),
		ExternalTimeout:    getenvDuration("EXTERNAL_TIMEOUT", 5*time.Second),
		UnitPriceMinor:     getenvInt64("UNIT_PRICE_MINOR", 0),
		PriceCurrency:      getenv("PRICE_CURRENCY", ""),
		OutboxPollInterval: getenvDuration("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:    int(getenvInt64("OUTBOX_BATCH_SIZE", 100)),
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("invalid integer env value, using default")
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("invalid duration env value, using default")
		return def
	}
	return v
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
