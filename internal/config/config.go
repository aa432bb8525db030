package config

import (
	"fmt"
	"time"

	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/errors"
)

// Config holds the full pipeline configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Log      LogConfig      `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// DatabaseConfig describes the PostgreSQL record store holding the
// vulnerability profiles, region snapshots, and the audit log.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxConns        int    `mapstructure:"max_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"` // in minutes
}

// GetDSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// KafkaConfig describes the optional audit mirror topic. When disabled the
// audit trail is written to the database only.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	AuditTopic   string        `mapstructure:"audit_topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BatchSize    int           `mapstructure:"batch_size"`
}

// MetricsConfig describes the Pushgateway used for batch job metrics.
// An empty gateway URL disables the push.
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	JobName        string `mapstructure:"job_name"`
}

// TracingConfig configures the optional Jaeger exporter.
type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// PipelineConfig carries run-level knobs. Model parameters (k bounds, eps,
// contamination) are compiled in; see pkg/constants.
type PipelineConfig struct {
	ModelVersion string `mapstructure:"model_version"`
}

// Validate checks for the connection parameters the pipeline cannot run
// without. It fails fast, before any data is touched.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.NewConfigurationError("database.host is required")
	}
	if c.Database.User == "" {
		return errors.NewConfigurationError("database.user is required")
	}
	if c.Database.Database == "" {
		return errors.NewConfigurationError("database.database is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.NewConfigurationError("kafka.brokers is required when kafka is enabled")
	}
	if c.Pipeline.ModelVersion == "" {
		c.Pipeline.ModelVersion = constants.DefaultModelVersion
	}
	return nil
}
