package models

import "time"

// VulnerabilityProfile is one household/medical vulnerability record from
// the population store. Optional attributes are pointers; a nil value means
// the field was absent upstream and the documented default applies.
type VulnerabilityProfile struct {
	ID                   string     `json:"id"`
	OrganizationID       string     `json:"organization_id"`
	CountyID             string     `json:"county_id"`
	StateID              string     `json:"state_id"`
	HouseholdSize        *float64   `json:"household_size"`
	MedicationDependency *bool      `json:"medication_dependency"`
	InsulinDependency    *bool      `json:"insulin_dependency"`
	OxygenPoweredDevice  *bool      `json:"oxygen_powered_device"`
	MobilityLimitation   *bool      `json:"mobility_limitation"`
	TransportationAccess *bool      `json:"transportation_access"`
	FinancialStrain      *bool      `json:"financial_strain"`
	RiskScore            float64    `json:"risk_score"`
	UpdatedAt            *time.Time `json:"updated_at"`
}

// EffectiveHouseholdSize applies the absent-defaults-to-1 rule and floors
// the result at 1.
func (p *VulnerabilityProfile) EffectiveHouseholdSize() float64 {
	if p.HouseholdSize == nil || *p.HouseholdSize < 1 {
		return 1
	}
	return *p.HouseholdSize
}

// HasMedicationDependency defaults to false when absent.
func (p *VulnerabilityProfile) HasMedicationDependency() bool {
	return p.MedicationDependency != nil && *p.MedicationDependency
}

// HasInsulinDependency defaults to false when absent.
func (p *VulnerabilityProfile) HasInsulinDependency() bool {
	return p.InsulinDependency != nil && *p.InsulinDependency
}

// HasOxygenPoweredDevice defaults to false when absent.
func (p *VulnerabilityProfile) HasOxygenPoweredDevice() bool {
	return p.OxygenPoweredDevice != nil && *p.OxygenPoweredDevice
}

// HasMobilityLimitation defaults to false when absent.
func (p *VulnerabilityProfile) HasMobilityLimitation() bool {
	return p.MobilityLimitation != nil && *p.MobilityLimitation
}

// HasTransportationAccess defaults to true when absent. This is the only
// boolean attribute whose absence is optimistic.
func (p *VulnerabilityProfile) HasTransportationAccess() bool {
	return p.TransportationAccess == nil || *p.TransportationAccess
}

// HasFinancialStrain defaults to false when absent.
func (p *VulnerabilityProfile) HasFinancialStrain() bool {
	return p.FinancialStrain != nil && *p.FinancialStrain
}
