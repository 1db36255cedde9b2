package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers          []string
	KafkaOrderEventsTopic string

	PaymentBaseURL  string
	PaymentAPIKey   string
	CatalogBaseURL  string
	AccountsBaseURL string
	ClientTimeout   time.Duration

	DisputeWindow         time.Duration
	BacklogReportSchedule string
	BacklogWarnAfter      time.Duration

	LogLevel string
}

// LoadConfig reads the environment, after loading .env when the file exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	config := Config{
		HTTPPort:   getEnv("HTTP_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fulfillment"),
		DBPassword: getEnv("DB_PASSWORD", "fulfillment"),
		DBName:     getEnv("DB_NAME", "fulfillment"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		KafkaBrokers:          splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaOrderEventsTopic: getEnv("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),

		PaymentBaseURL:  getEnv("PAYMENT_BASE_URL", "http://localhost:8090"),
		PaymentAPIKey:   getEnv("PAYMENT_API_KEY", ""),
		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", "http://localhost:8091"),
		AccountsBaseURL: getEnv("ACCOUNTS_BASE_URL", "http://localhost:8092"),

		BacklogReportSchedule: getEnv("BACKLOG_REPORT_SCHEDULE", "0 * * * * *"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if config.ClientTimeout, err = getDuration("CLIENT_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if config.DisputeWindow, err = getDuration("DISPUTE_WINDOW", 14*24*time.Hour); err != nil {
		return Config{}, err
	}
	if config.BacklogWarnAfter, err = getDuration("BACKLOG_WARN_AFTER", 72*time.Hour); err != nil {
		return Config{}, err
	}

	return config, nil
}

// DSN is the PostgreSQL connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	if d <= 0 {
		return 0, errors.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
