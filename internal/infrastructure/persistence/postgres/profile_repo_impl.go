package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/internal/domain/repository"
	"github.com/aera-platform/riskengine/pkg/errors"
)

const profileWriteBatchSize = 500

// vulnerabilityProfileDBM is the database model for vulnerability_profiles.
type vulnerabilityProfileDBM struct {
	ID                   string `gorm:"primaryKey"`
	OrganizationID       string
	CountyID             string
	StateID              string
	HouseholdSize        *float64
	MedicationDependency *bool
	InsulinDependency    *bool
	OxygenPoweredDevice  *bool
	MobilityLimitation   *bool
	TransportationAccess *bool
	FinancialStrain      *bool
	RiskScore            float64
	UpdatedAt            *time.Time
}

func (vulnerabilityProfileDBM) TableName() string {
	return "vulnerability_profiles"
}

func (dbm *vulnerabilityProfileDBM) toDomain() *models.VulnerabilityProfile {
	return &models.VulnerabilityProfile{
		ID:                   dbm.ID,
		OrganizationID:       dbm.OrganizationID,
		CountyID:             dbm.CountyID,
		StateID:              dbm.StateID,
		HouseholdSize:        dbm.HouseholdSize,
		MedicationDependency: dbm.MedicationDependency,
		InsulinDependency:    dbm.InsulinDependency,
		OxygenPoweredDevice:  dbm.OxygenPoweredDevice,
		MobilityLimitation:   dbm.MobilityLimitation,
		TransportationAccess: dbm.TransportationAccess,
		FinancialStrain:      dbm.FinancialStrain,
		RiskScore:            dbm.RiskScore,
		UpdatedAt:            dbm.UpdatedAt,
	}
}

func profileFromDomain(p *models.VulnerabilityProfile) *vulnerabilityProfileDBM {
	return &vulnerabilityProfileDBM{
		ID:                   p.ID,
		OrganizationID:       p.OrganizationID,
		CountyID:             p.CountyID,
		StateID:              p.StateID,
		HouseholdSize:        p.HouseholdSize,
		MedicationDependency: p.MedicationDependency,
		InsulinDependency:    p.InsulinDependency,
		OxygenPoweredDevice:  p.OxygenPoweredDevice,
		MobilityLimitation:   p.MobilityLimitation,
		TransportationAccess: p.TransportationAccess,
		FinancialStrain:      p.FinancialStrain,
		RiskScore:            p.RiskScore,
		UpdatedAt:            p.UpdatedAt,
	}
}

// ProfileRepositoryImpl is the GORM implementation of ProfileRepository.
type ProfileRepositoryImpl struct {
	db *gorm.DB
}

// NewProfileRepository creates a ProfileRepository backed by the record store.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// ListAll returns the full population ordered by id, so every run walks
// the population in the same order.
func (r *ProfileRepositoryImpl) ListAll(ctx context.Context) ([]*models.VulnerabilityProfile, error) {
	var dbms []vulnerabilityProfileDBM
	if err := r.db.WithContext(ctx).Order("id").Find(&dbms).Error; err != nil {
		return nil, errors.NewUpstreamIOError("failed to load vulnerability profiles", err)
	}

	profiles := make([]*models.VulnerabilityProfile, len(dbms))
	for i := range dbms {
		profiles[i] = dbms[i].toDomain()
	}
	return profiles, nil
}

// UpdateRiskScores upserts the batch keyed by id, assigning only the
// risk_score column on conflict. No other profile attribute is written.
func (r *ProfileRepositoryImpl) UpdateRiskScores(ctx context.Context, profiles []*models.VulnerabilityProfile) error {
	if len(profiles) == 0 {
		return nil
	}

	dbms := make([]*vulnerabilityProfileDBM, len(profiles))
	for i, p := range profiles {
		dbms[i] = profileFromDomain(p)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"risk_score"}),
	}).CreateInBatches(dbms, profileWriteBatchSize).Error
	if err != nil {
		return errors.NewUpstreamIOError("failed to write back risk scores", err)
	}
	return nil
}
