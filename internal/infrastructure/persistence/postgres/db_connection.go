// Package postgres provides the GORM-backed implementations of the
// pipeline's repository interfaces against the PostgreSQL record store.
package postgres

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aera-platform/riskengine/internal/config"
	"github.com/aera-platform/riskengine/pkg/errors"
	"github.com/aera-platform/riskengine/pkg/logger"
)

// NewConnection opens the database connection pool and verifies it with a
// ping before any stage runs.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	log.Info(ctx, "connecting to record store", logger.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Database,
	})

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.NewUpstreamIOError("failed to open database connection", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.NewUpstreamIOError("failed to access connection pool", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetime) * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, errors.NewUpstreamIOError("database ping failed", err)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
