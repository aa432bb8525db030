//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/pkg/constants"
)

// TestRepositoriesAgainstPostgres exercises the real schema from
// migrations/ against a throwaway PostgreSQL container.
func TestRepositoriesAgainstPostgres(t *testing.T) {
	if os.Getenv("SKIP_DOCKER_TESTS") == "true" {
		t.Skip("Skipping Docker-dependent tests")
	}

	ctx := context.Background()

	container, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		pgcontainer.WithDatabase("aera"),
		pgcontainer.WithUsername("pipeline"),
		pgcontainer.WithPassword("pipeline"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, container.Terminate(ctx))
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{})
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../../migrations/001_create_pipeline_tables.sql")
	require.NoError(t, err)
	sqlBytes, err := os.ReadFile(migrationsPath)
	require.NoError(t, err)
	require.NoError(t, db.Exec(string(sqlBytes)).Error)

	profiles := NewProfileRepository(db)
	snapshots := NewSnapshotRepository(db)

	size := 3.0
	insulin := true
	require.NoError(t, profiles.UpdateRiskScores(ctx, []*models.VulnerabilityProfile{
		{
			ID:                "p1",
			OrganizationID:    "O1",
			CountyID:          "C1",
			StateID:           "S1",
			HouseholdSize:     &size,
			InsulinDependency: &insulin,
			RiskScore:         3.4,
		},
	}))

	loaded, err := profiles.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 3.4, loaded[0].RiskScore)

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	snap := &models.RegionSnapshot{
		SnapshotDate:       date,
		SnapshotWindowDays: constants.SnapshotWindowDays,
		OrganizationID:     "O1",
		CountyID:           "C1",
		StateID:            "S1",
		ProfileCount:       1,
		AvgRiskScore:       3.4,
		MaxRiskScore:       3.4,
		MinRiskScore:       3.4,
		DriftStatus:        constants.DriftStatusStable,
		Projection14D:      3.4,
		ModelVersion:       "level3-test",
		PipelineRunID:      "run-1",
		Metadata:           models.JSONMap{"generated_by": constants.GeneratedBy},
	}
	require.NoError(t, snapshots.UpsertBatch(ctx, []*models.RegionSnapshot{snap}))

	// Upsert again with a new average; the natural key must merge.
	snap.AvgRiskScore = 3.6
	snap.PipelineRunID = "run-2"
	require.NoError(t, snapshots.UpsertBatch(ctx, []*models.RegionSnapshot{snap}))

	rows, err := snapshots.ListByDate(ctx, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3.6, rows[0].AvgRiskScore)
	assert.Equal(t, "run-2", rows[0].PipelineRunID)
}
