package application

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aera-platform/riskengine/internal/analytics"
	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/utils"
)

// AggregateInput is everything the region aggregation consumes: the scored
// population, the per-row model outputs (all aligned by index), and the
// 30-day-prior baseline averages keyed by (county, state).
type AggregateInput struct {
	Profiles     []*models.VulnerabilityProfile
	KMeansLabels []int
	DBSCANLabels []int
	OutlierFlags []bool
	Baseline     map[models.RegionKey]float64
}

// RegionAggregator groups the population by (county, state, organization),
// aggregates risk statistics per group, and attaches drift against the
// prior-period baseline.
type RegionAggregator struct{}

// NewRegionAggregator creates a RegionAggregator.
func NewRegionAggregator() *RegionAggregator {
	return &RegionAggregator{}
}

// regionGroup collects the row indices belonging to one region key.
type regionGroup struct {
	countyID       string
	stateID        string
	organizationID string
	rows           []int
}

// BuildSnapshots produces one RegionSnapshot per group, ready for upsert
// on the natural key. Missing county/state ids are bucketed under
// "UNKNOWN" before grouping; organization id is never defaulted. Output
// order is stable (sorted by key) so repeated runs write identical batches.
func (a *RegionAggregator) BuildSnapshots(run *RunContext, in AggregateInput) []*models.RegionSnapshot {
	groups := make(map[[3]string]*regionGroup)
	for i, p := range in.Profiles {
		county := p.CountyID
		if county == "" {
			county = constants.UnknownRegion
		}
		state := p.StateID
		if state == "" {
			state = constants.UnknownRegion
		}

		key := [3]string{county, state, p.OrganizationID}
		g, ok := groups[key]
		if !ok {
			g = &regionGroup{countyID: county, stateID: state, organizationID: p.OrganizationID}
			groups[key] = g
		}
		g.rows = append(g.rows, i)
	}

	keys := make([][3]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		for c := 0; c < 3; c++ {
			if keys[i][c] != keys[j][c] {
				return keys[i][c] < keys[j][c]
			}
		}
		return false
	})

	snapshots := make([]*models.RegionSnapshot, 0, len(keys))
	for _, key := range keys {
		snapshots = append(snapshots, a.buildSnapshot(run, in, groups[key]))
	}
	return snapshots
}

func (a *RegionAggregator) buildSnapshot(run *RunContext, in AggregateInput, g *regionGroup) *models.RegionSnapshot {
	scores := make([]float64, len(g.rows))
	kmeansLabels := make([]int, len(g.rows))
	dbscanLabels := make([]int, len(g.rows))
	anomalies := 0

	for i, row := range g.rows {
		scores[i] = in.Profiles[row].RiskScore
		kmeansLabels[i] = in.KMeansLabels[row]
		dbscanLabels[i] = in.DBSCANLabels[row]
		if in.OutlierFlags[row] {
			anomalies++
		}
	}

	// Drift and projection read the unrounded mean; only the stored
	// columns are rounded.
	avgRisk := stat.Mean(scores, nil)
	minRisk, maxRisk := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minRisk {
			minRisk = s
		}
		if s > maxRisk {
			maxRisk = s
		}
	}

	prevAvg := in.Baseline[models.RegionKey{CountyID: g.countyID, StateID: g.stateID}]
	drift := analytics.Drift(avgRisk, prevAvg)

	kmeansMode := dominantCluster(kmeansLabels)
	dbscanMode := dominantCluster(dbscanLabels)

	return &models.RegionSnapshot{
		SnapshotDate:       run.SnapshotDate,
		SnapshotWindowDays: constants.SnapshotWindowDays,
		OrganizationID:     g.organizationID,
		CountyID:           g.countyID,
		StateID:            g.stateID,
		ProfileCount:       len(g.rows),
		AvgRiskScore:       utils.Round4(avgRisk),
		MaxRiskScore:       utils.Round4(maxRisk),
		MinRiskScore:       utils.Round4(minRisk),
		RiskGrowthPct:      drift,
		DriftValue:         drift,
		DriftStatus:        analytics.ClassifyDrift(drift),
		KMeansCluster:      kmeansMode,
		DBSCANCluster:      dbscanMode,
		AnomalyCount:       anomalies,
		Projection14D:      analytics.Project14D(avgRisk, drift),
		ModelVersion:       run.ModelVersion,
		PipelineRunID:      run.ID,
		Metadata:           models.JSONMap{"generated_by": constants.GeneratedBy},
	}
}

// dominantCluster is the statistical mode of the group's labels. Ties are
// resolved arbitrarily; any most-frequent label is a valid dominant cluster.
func dominantCluster(labels []int) *int {
	if len(labels) == 0 {
		return nil
	}
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = float64(l)
	}
	sort.Float64s(values)
	mode, _ := stat.Mode(values, nil)
	dominant := int(mode)
	return &dominant
}
