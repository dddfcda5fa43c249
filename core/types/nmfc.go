// Package types - NMFC classification documents
package types

import "time"

// FreightClass is one of the 18 standard NMFC classes
type FreightClass struct {
	// Code is the NMFC class string (e.g. "100")
	Code string `json:"code"`

	// MinDensityPCF is the inclusive lower density bound in lbs/ft3
	MinDensityPCF float64 `json:"min_density_pcf"`
}

// FAKMapping remaps one NMFC class to another for pricing purposes.
// Precedence: customer-specific beats tariff-specific beats global.
type FAKMapping struct {
	// ID uniquely identifies the mapping
	ID string `json:"id"`

	// TariffID scopes the mapping to one tariff; empty means any
	TariffID string `json:"tariff_id,omitempty"`

	// CustomerID scopes the mapping to one customer; empty means any
	CustomerID string `json:"customer_id,omitempty"`

	// FromClassCode is the actual class being remapped
	FromClassCode string `json:"from_class_code"`

	// ToClassCode is the class used for pricing
	ToClassCode string `json:"to_class_code"`

	// EffectiveFrom is the start of the validity window
	EffectiveFrom time.Time `json:"effective_from"`

	// EffectiveTo is the end of the validity window, zero for open-ended
	EffectiveTo time.Time `json:"effective_to,omitempty"`
}

// ClassSource identifies how a freight class was determined
type ClassSource string

const (
	ClassSourceDeclared          ClassSource = "declared"
	ClassSourceDensityCalculated ClassSource = "density_calculated"
	ClassSourceFAKMapped         ClassSource = "FAK_mapped"
)

// ClassResolution is the outcome of freight class resolution
type ClassResolution struct {
	// Actual is the shipment's real class, declared or density-derived
	Actual string `json:"actual"`

	// Price is the class used for pricing after FAK remapping
	Price string `json:"price"`

	// Source records how Price was arrived at
	Source ClassSource `json:"source"`

	// DensityPCF is the computed density, zero when class was declared
	DensityPCF float64 `json:"density_pcf,omitempty"`
}
