// Package types - Carrier configuration and terminal/skid rate documents
package types

import "github.com/shopspring/decimal"

// RateFormat selects the calculation strategy for a carrier
type RateFormat string

const (
	FormatTerminalWeightBased RateFormat = "terminal_weight_based"
	FormatSkidBased           RateFormat = "skid_based"
	FormatNMFC                RateFormat = "nmfc"
	FormatZoneMatrix          RateFormat = "zone_matrix"
	FormatHybridTerminalZone  RateFormat = "hybrid_terminal_zone"
)

// RateType selects the charge formula for terminal-based rating
type RateType string

const (
	RatePer100Lbs RateType = "PER_100LBS"
	RatePerLb     RateType = "PER_LB"
	RateFlat      RateType = "FLAT_RATE"
)

// CarrierConfig is the rating configuration for one carrier
type CarrierConfig struct {
	// ID uniquely identifies the carrier
	ID string `json:"id"`

	// Name is the carrier's display name
	Name string `json:"name"`

	// Format selects the rate calculation strategy
	Format RateFormat `json:"format"`

	// TariffID names the NMFC tariff for nmfc format carriers
	TariffID string `json:"tariff_id,omitempty"`

	// FuelSurchargePct is the default fuel surcharge percentage
	FuelSurchargePct decimal.Decimal `json:"fuel_surcharge_pct"`

	// Currency is the billing currency
	Currency Currency `json:"currency"`

	// TransitDays is the advertised transit time, zero when unknown
	TransitDays int `json:"transit_days,omitempty"`
}

// Terminal is a carrier's regional freight hub
type Terminal struct {
	// ID uniquely identifies the terminal
	ID string `json:"id"`

	// CarrierID is the owning carrier
	CarrierID string `json:"carrier_id"`

	// City is the terminal city, normalized lowercase
	City string `json:"city"`

	// Province is the two-letter province/state code
	Province string `json:"province"`
}

// TerminalRate is a weight-banded rate between two terminals
type TerminalRate struct {
	// ID uniquely identifies the rate row
	ID string `json:"id"`

	// CarrierID is the owning carrier
	CarrierID string `json:"carrier_id"`

	// OriginTerminalID is the origin terminal
	OriginTerminalID string `json:"origin_terminal_id"`

	// DestTerminalID is the destination terminal
	DestTerminalID string `json:"dest_terminal_id"`

	// MinWeightLbs is the inclusive lower weight bound
	MinWeightLbs float64 `json:"min_weight_lbs"`

	// MaxWeightLbs is the inclusive upper weight bound
	MaxWeightLbs float64 `json:"max_weight_lbs"`

	// RateType selects the charge formula
	RateType RateType `json:"rate_type"`

	// Rate is the rate value interpreted per RateType
	Rate decimal.Decimal `json:"rate"`

	// MinCharge floors the computed charge, zero when unset
	MinCharge decimal.Decimal `json:"min_charge"`
}

// SkidRate is a flat rate for a skid count
type SkidRate struct {
	// ID uniquely identifies the rate row
	ID string `json:"id"`

	// CarrierID is the owning carrier
	CarrierID string `json:"carrier_id"`

	// SkidCount is the number of skid positions the rate covers
	SkidCount int `json:"skid_count"`

	// Rate is the flat charge for this skid count
	Rate decimal.Decimal `json:"rate"`
}
