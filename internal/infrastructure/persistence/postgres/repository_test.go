package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/pkg/constants"
)

// testDB opens a fresh in-memory database with the pipeline schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&vulnerabilityProfileDBM{}, &regionSnapshotDBM{}))
	return db
}

func persistedProfile(id string, score float64) *models.VulnerabilityProfile {
	size := 2.0
	return &models.VulnerabilityProfile{
		ID:             id,
		OrganizationID: "O1",
		CountyID:       "C1",
		StateID:        "S1",
		HouseholdSize:  &size,
		RiskScore:      score,
	}
}

func TestProfileRepositoryListAllOrdered(t *testing.T) {
	db := testDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpdateRiskScores(ctx, []*models.VulnerabilityProfile{
		persistedProfile("b", 2.0),
		persistedProfile("a", 1.0),
		persistedProfile("c", 3.0),
	}))

	profiles, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "a", profiles[0].ID)
	assert.Equal(t, "b", profiles[1].ID)
	assert.Equal(t, "c", profiles[2].ID)
}

func TestProfileRepositoryUpdateRiskScoresOnlyTouchesScore(t *testing.T) {
	db := testDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpdateRiskScores(ctx, []*models.VulnerabilityProfile{
		persistedProfile("p1", 1.5),
	}))

	// Re-score with a different county; only risk_score may change.
	changed := persistedProfile("p1", 4.25)
	changed.CountyID = "C9"
	require.NoError(t, repo.UpdateRiskScores(ctx, []*models.VulnerabilityProfile{changed}))

	profiles, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, 4.25, profiles[0].RiskScore)
	assert.Equal(t, "C1", profiles[0].CountyID)
}

func testSnapshot(date time.Time, county string, avg float64) *models.RegionSnapshot {
	cluster := 1
	return &models.RegionSnapshot{
		SnapshotDate:       date,
		SnapshotWindowDays: constants.SnapshotWindowDays,
		OrganizationID:     "O1",
		CountyID:           county,
		StateID:            "S1",
		ProfileCount:       3,
		AvgRiskScore:       avg,
		MaxRiskScore:       avg + 1,
		MinRiskScore:       avg - 1,
		DriftStatus:        constants.DriftStatusStable,
		KMeansCluster:      &cluster,
		Projection14D:      avg,
		ModelVersion:       "level3-test",
		PipelineRunID:      "run-1",
		Metadata:           models.JSONMap{"generated_by": constants.GeneratedBy},
	}
}

func TestSnapshotRepositoryUpsertMergesOnNaturalKey(t *testing.T) {
	db := testDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertBatch(ctx, []*models.RegionSnapshot{
		testSnapshot(date, "C1", 2.0),
	}))

	// Second run for the same date and region replaces, not duplicates.
	require.NoError(t, repo.UpsertBatch(ctx, []*models.RegionSnapshot{
		testSnapshot(date, "C1", 3.5),
	}))

	rows, err := repo.ListByDate(ctx, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3.5, rows[0].AvgRiskScore)
	assert.Equal(t, "C1", rows[0].CountyID)
	require.NotNil(t, rows[0].KMeansCluster)
	assert.Equal(t, 1, *rows[0].KMeansCluster)
	assert.Equal(t, constants.GeneratedBy, rows[0].Metadata["generated_by"])
}

func TestSnapshotRepositoryListByDateFilters(t *testing.T) {
	db := testDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	current := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	prior := current.AddDate(0, 0, -constants.SnapshotWindowDays)

	require.NoError(t, repo.UpsertBatch(ctx, []*models.RegionSnapshot{
		testSnapshot(prior, "C1", 2.0),
		testSnapshot(prior, "C2", 4.0),
		testSnapshot(current, "C1", 2.5),
	}))

	rows, err := repo.ListByDate(ctx, prior)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.ListByDate(ctx, current)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.5, rows[0].AvgRiskScore)
}

func TestSnapshotRepositoryUpsertEmptyBatch(t *testing.T) {
	db := testDB(t)
	repo := NewSnapshotRepository(db)

	require.NoError(t, repo.UpsertBatch(context.Background(), nil))
}
