package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/errors"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AERA_DATABASE_HOST", "db.internal")
	t.Setenv("AERA_DATABASE_USER", "pipeline")
	t.Setenv("AERA_DATABASE_PASSWORD", "secret")
	t.Setenv("AERA_DATABASE_DATABASE", "aera")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, constants.DefaultModelVersion, cfg.Pipeline.ModelVersion)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "aera.model-audit", cfg.Kafka.AuditTopic)
	assert.Equal(t, "aera_level3_pipeline", cfg.Metrics.JobName)
}

func TestLoadConfigModelVersionOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AERA_MODEL_VERSION", "level3-2026.08")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "level3-2026.08", cfg.Pipeline.ModelVersion)
}

func TestLoadConfigMissingHostFails(t *testing.T) {
	t.Setenv("AERA_DATABASE_HOST", "")
	t.Setenv("AERA_DATABASE_USER", "pipeline")
	t.Setenv("AERA_DATABASE_DATABASE", "aera")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestLoadConfigKafkaRequiresBrokers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AERA_KAFKA_ENABLED", "true")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestLoadConfigKafkaBrokersFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AERA_KAFKA_ENABLED", "true")
	t.Setenv("AERA_KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "pipeline",
		Password: "secret",
		Database: "aera",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=pipeline password=secret dbname=aera sslmode=require",
		cfg.GetDSN())
}
