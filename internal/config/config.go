package config

import (
	"os"
	"strconv"
	"time"

	"voyago/internal/cache"
	"voyago/internal/database"
	"voyago/internal/external"
	"voyago/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	JWTSecret string

	// Expiry sweeper
	SweepSchedule string
	BookingTTL    time.Duration

	Database      database.Config
	NATS          messaging.Config
	Redis         cache.Config
	Elasticsearch ElasticsearchConfig
	Momo          external.MomoConfig
	Mailer        external.MailerConfig
}

// ElasticsearchConfig configures the tour search index
type ElasticsearchConfig struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		// Daily at 03:00; seconds-precision cron expression
		SweepSchedule: getEnv("SWEEP_SCHEDULE", "0 0 3 * * *"),
		BookingTTL:    time.Duration(getEnvInt("BOOKING_TTL_HOURS", 24)) * time.Hour,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "voyago"),
			Password:           getEnv("DB_PASSWORD", "voyago123"),
			DBName:             getEnv("DB_NAME", "voyago"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "voyago"),
			ClientID:  getEnv("NATS_CLIENT_ID", "voyago-api"),
		},

		Redis: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SEC", 60)) * time.Second,
		},

		Elasticsearch: ElasticsearchConfig{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_TOURS_INDEX", "tours"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Momo: external.MomoConfig{
			Endpoint:    getEnv("MOMO_ENDPOINT", "https://test-payment.momo.vn"),
			PartnerCode: getEnv("MOMO_PARTNER_CODE", ""),
			PartnerName: getEnv("MOMO_PARTNER_NAME", "Voyago Travel"),
			StoreID:     getEnv("MOMO_STORE_ID", "VoyagoStore"),
			AccessKey:   getEnv("MOMO_ACCESS_KEY", ""),
			SecretKey:   getEnv("MOMO_SECRET_KEY", ""),
			RedirectURL: getEnv("MOMO_REDIRECT_URL", "http://localhost:8080/payment/result"),
			IPNURL:      getEnv("MOMO_IPN_URL", "http://localhost:8080/api/payments/ipn"),
			Timeout:     time.Duration(getEnvInt("MOMO_TIMEOUT_SEC", 30)) * time.Second,
		},

		Mailer: external.MailerConfig{
			BaseURL: getEnv("MAIL_SERVICE_URL", ""),
			APIKey:  getEnv("MAIL_SERVICE_API_KEY", ""),
			From:    getEnv("MAIL_FROM", "bookings@voyago.example"),
			Timeout: time.Duration(getEnvInt("MAIL_TIMEOUT_SEC", 10)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
