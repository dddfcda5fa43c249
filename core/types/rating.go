// Package types - Rating break, tariff, and rate matrix documents
package types

import "github.com/shopspring/decimal"

// BreakMetric is the physical measure a break set ladders over
type BreakMetric string

const (
	MetricWeight     BreakMetric = "weight"
	MetricLinearFeet BreakMetric = "lf"
	MetricSkid       BreakMetric = "skid"
)

// BreakMethod selects the break evaluation rule
type BreakMethod string

const (
	// MethodStep bills the actual metric within a non-overlapping range
	MethodStep BreakMethod = "step"

	// MethodExtend bills at least the break minimum (deficit rating)
	MethodExtend BreakMethod = "extend"
)

// RatingBreakSet is an ordered ladder of rating breaks
type RatingBreakSet struct {
	// ID uniquely identifies the break set
	ID string `json:"id"`

	// Name is a human-readable label
	Name string `json:"name"`

	// Metric is the measure the ladder covers
	Metric BreakMetric `json:"metric"`

	// Unit is the metric unit (e.g. "lbs", "ft")
	Unit string `json:"unit"`

	// Method is the evaluation rule for every break in the set
	Method BreakMethod `json:"method"`
}

// RatingBreak is one rung of a break ladder
type RatingBreak struct {
	// ID uniquely identifies the break
	ID string `json:"id"`

	// BreakSetID links to the owning set
	BreakSetID string `json:"break_set_id"`

	// MinMetric is the inclusive lower bound
	MinMetric float64 `json:"min_metric"`

	// MaxMetric is the exclusive upper bound; nil means open-ended
	MaxMetric *float64 `json:"max_metric,omitempty"`

	// Seq orders breaks within the set
	Seq int `json:"seq"`
}

// PricingMode selects how an NMFC tariff prices a class
type PricingMode string

const (
	// PricingExplicit reads rates directly from the rate matrix
	PricingExplicit PricingMode = "explicit"

	// PricingBaseDiscount applies a discount off a base tariff's rates
	PricingBaseDiscount PricingMode = "base_discount"
)

// Tariff is an NMFC-class tariff document
type Tariff struct {
	// ID uniquely identifies the tariff
	ID string `json:"id"`

	// Name is a human-readable label
	Name string `json:"name"`

	// PricingMode selects explicit or base-discount pricing
	PricingMode PricingMode `json:"pricing_mode"`

	// BreakSetID is the weight-break ladder the tariff rates against
	BreakSetID string `json:"break_set_id"`

	// BaseTariffID names the base tariff for base_discount mode
	BaseTariffID string `json:"base_tariff_id,omitempty"`

	// DiscountPct is the discount off base rates, in percent
	DiscountPct decimal.Decimal `json:"discount_pct"`

	// AMC is the absolute minimum charge floor, zero when unset
	AMC decimal.Decimal `json:"amc"`

	// FuelSurchargePct is the fuel surcharge percentage
	FuelSurchargePct decimal.Decimal `json:"fuel_surcharge_pct"`

	// Method is the break evaluation rule used during rating
	Method BreakMethod `json:"method"`
}

// RateMatrixEntry is one cell of a tariff's rate matrix
type RateMatrixEntry struct {
	// TariffID links to the owning tariff
	TariffID string `json:"tariff_id"`

	// BreakID links to the rating break this rate applies at
	BreakID string `json:"break_id"`

	// ClassCode is the NMFC class the rate applies to
	ClassCode string `json:"class_code"`

	// RateValue is the per-unit rate (per CWT for weight ladders)
	RateValue decimal.Decimal `json:"rate_value"`

	// MinCharge floors the computed charge, zero when unset
	MinCharge decimal.Decimal `json:"min_charge"`
}

// BaseRate is a published base-tariff rate for a class, used by
// base_discount pricing.
type BaseRate struct {
	// TariffID is the base tariff
	TariffID string `json:"tariff_id"`

	// ClassCode is the NMFC class
	ClassCode string `json:"class_code"`

	// RateCwt is the per-hundredweight rate before discount
	RateCwt decimal.Decimal `json:"rate_cwt"`
}
