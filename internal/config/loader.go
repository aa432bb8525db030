package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/errors"
)

// LoadConfig loads the configuration from an optional config file and from
// environment variables prefixed with AERA_.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values. Keys without a natural default still need to be
	// registered so AutomaticEnv can populate them during Unmarshal.
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "require")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.max_conn_lifetime", 30)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.audit_topic", "aera.model-audit")
	v.SetDefault("kafka.write_timeout", "10s")
	v.SetDefault("kafka.batch_size", 100)
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job_name", "aera_level3_pipeline")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", "aera-risk-pipeline")
	v.SetDefault("log.level", "info")
	v.SetDefault("pipeline.model_version", constants.DefaultModelVersion)

	// Load from config file when present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/aera/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigurationError("failed to read config file").WithCause(err)
		}
	}

	// Load from environment variables
	v.SetEnvPrefix("AERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AERA_MODEL_VERSION is the published name for the model version
	// override; keep it bound alongside the derived AERA_PIPELINE_MODEL_VERSION.
	_ = v.BindEnv("pipeline.model_version", "AERA_MODEL_VERSION", "AERA_PIPELINE_MODEL_VERSION")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigurationError("failed to unmarshal config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
