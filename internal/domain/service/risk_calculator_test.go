package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aera-platform/riskengine/internal/domain/models"
	"github.com/aera-platform/riskengine/internal/domain/service"
)

func boolPtr(b bool) *bool       { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestScore_InsulinDependentHousehold(t *testing.T) {
	calc := service.NewRiskCalculator()

	// household_size=2 -> component 0.8; insulin adds 2.2; everything else
	// at its default.
	p := &models.VulnerabilityProfile{
		HouseholdSize:     floatPtr(2),
		InsulinDependency: boolPtr(true),
	}

	assert.Equal(t, 3.0, calc.Score(p))
}

func TestScore_DefaultsWhenAllAbsent(t *testing.T) {
	calc := service.NewRiskCalculator()

	// Absent household defaults to 1, absent booleans to false, and absent
	// transportation access to true, leaving only the household component.
	p := &models.VulnerabilityProfile{}

	assert.Equal(t, 0.4, calc.Score(p))
}

func TestScore_HouseholdComponentCapped(t *testing.T) {
	calc := service.NewRiskCalculator()

	p := &models.VulnerabilityProfile{HouseholdSize: floatPtr(500)}
	assert.Equal(t, 3.2, calc.Score(p))

	// Zero or negative sizes floor at one member.
	p = &models.VulnerabilityProfile{HouseholdSize: floatPtr(0)}
	assert.Equal(t, 0.4, calc.Score(p))

	p = &models.VulnerabilityProfile{HouseholdSize: floatPtr(-3)}
	assert.Equal(t, 0.4, calc.Score(p))
}

func TestScore_NoTransportationAccess(t *testing.T) {
	calc := service.NewRiskCalculator()

	p := &models.VulnerabilityProfile{TransportationAccess: boolPtr(false)}
	assert.Equal(t, 1.6, calc.Score(p))
}

func TestScore_AllFactorsPresent(t *testing.T) {
	calc := service.NewRiskCalculator()

	p := &models.VulnerabilityProfile{
		HouseholdSize:        floatPtr(4),
		MedicationDependency: boolPtr(true),
		InsulinDependency:    boolPtr(true),
		OxygenPoweredDevice:  boolPtr(true),
		MobilityLimitation:   boolPtr(true),
		TransportationAccess: boolPtr(false),
		FinancialStrain:      boolPtr(true),
	}

	// 1.6 + 1.8 + 2.2 + 2.5 + 1.5 + 1.2 + 1.4
	assert.Equal(t, 12.2, calc.Score(p))
}

func TestScore_DeterministicAcrossCalls(t *testing.T) {
	calc := service.NewRiskCalculator()

	p := &models.VulnerabilityProfile{
		HouseholdSize:       floatPtr(3),
		OxygenPoweredDevice: boolPtr(true),
	}

	first := calc.Score(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, calc.Score(p))
	}
}
