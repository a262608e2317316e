package service

import (
	"fmt"
	"time"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendFile     = "file"
)

type Config struct {
	StoreBackend             string        `envconfig:"STORE_BACKEND" default:"file"`
	DatabaseUri              string        `envconfig:"DATABASE_URI"`
	DatabaseMaxConns         int           `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns     int           `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime  int           `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	DataFilePath             string        `envconfig:"DATA_FILE_PATH" default:"data.json"`
	SentryDSN                string        `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate   float64       `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	DatadogAgentUrl          string        `envconfig:"DATADOG_AGENT_URL"`
	LogFilePath              string        `envconfig:"LOG_FILE_PATH"`
	Host                     string        `envconfig:"HOST" default:"localhost:3000"`
	Port                     int           `envconfig:"PORT" default:"3000"`
	DefaultRateLimit         int           `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit          int           `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit           int           `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus         bool          `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort           int           `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl               string        `envconfig:"WEBHOOK_URL"`
	WebhookTimeout           time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
	RabbitMQUri              string        `envconfig:"RABBITMQ_URI"`
	RabbitMQRequestExchange  string        `envconfig:"RABBITMQ_REQUEST_EXCHANGE" default:"x402_request"`
	RabbitMQPaymentQueueName string        `envconfig:"RABBITMQ_PAYMENT_QUEUE_NAME" default:"x402_payment_submissions"`
	AdminToken               string        `envconfig:"ADMIN_TOKEN"`
	CorsAllowOrigins         []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	VerifyTimeout            time.Duration `envconfig:"VERIFY_TIMEOUT" default:"30s"`
	WatcherInterval          time.Duration `envconfig:"WATCHER_INTERVAL" default:"0s"` // 0 disables the pending watcher
	MaxOverpayRatio          float64       `envconfig:"MAX_OVERPAY_RATIO" default:"0"` // 0 accepts any overpayment
	DefaultNetwork           string        `envconfig:"DEFAULT_NETWORK" default:"sepolia"`
	LinkBaseUrl              string        `envconfig:"LINK_BASE_URL"`
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendFile:
		if c.DataFilePath == "" {
			return fmt.Errorf("DATA_FILE_PATH is required for the %s store", StoreBackendFile)
		}
	case StoreBackendPostgres:
		if c.DatabaseUri == "" {
			return fmt.Errorf("DATABASE_URI is required for the %s store", StoreBackendPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q, expected %s or %s", c.StoreBackend, StoreBackendPostgres, StoreBackendFile)
	}
	if c.MaxOverpayRatio < 0 {
		return fmt.Errorf("MAX_OVERPAY_RATIO must not be negative")
	}
	return nil
}
