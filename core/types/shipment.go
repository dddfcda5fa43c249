// Package types - Shipment descriptor and rate result
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment describes the freight being rated. It is supplied by the
// hosting request layer after validation of its own wire schema.
type Shipment struct {
	// CarrierID is the carrier to rate against
	CarrierID string `json:"carrier_id"`

	// ServiceID optionally names a carrier service level
	ServiceID string `json:"service_id,omitempty"`

	// CustomerID scopes FAK lookups, empty for anonymous rating
	CustomerID string `json:"customer_id,omitempty"`

	// OriginPostal is the free-text origin postal code
	OriginPostal string `json:"origin_postal"`

	// DestPostal is the free-text destination postal code
	DestPostal string `json:"dest_postal"`

	// OriginCity and OriginProvince locate origin for terminal rating
	OriginCity     string `json:"origin_city,omitempty"`
	OriginProvince string `json:"origin_province,omitempty"`

	// DestCity and DestProvince locate destination for terminal rating
	DestCity     string `json:"dest_city,omitempty"`
	DestProvince string `json:"dest_province,omitempty"`

	// TotalWeightLbs is the total shipment weight in pounds
	TotalWeightLbs float64 `json:"total_weight_lbs"`

	// TotalCubeFt is the total volume in cubic feet
	TotalCubeFt float64 `json:"total_cube_ft"`

	// FootprintSqIn is the total floor footprint in square inches,
	// used to derive skid equivalents
	FootprintSqIn float64 `json:"footprint_sq_in,omitempty"`

	// DeclaredClass is the shipper-declared NMFC class, empty when
	// density classification should apply
	DeclaredClass string `json:"declared_class,omitempty"`

	// ShipDate is the requested ship date
	ShipDate time.Time `json:"ship_date"`
}

// ChargeItem is one line of an itemized rate breakdown
type ChargeItem struct {
	// Label names the charge (Linehaul, Fuel Surcharge, Accessorials)
	Label string `json:"label"`

	// Amount is the charge amount
	Amount decimal.Decimal `json:"amount"`
}

// RoutingInfo describes how the rate was routed
type RoutingInfo struct {
	// ZoneCode is the resolved zone, when zone resolution ran
	ZoneCode string `json:"zone_code,omitempty"`

	// ZoneSource is the fallback level that produced the zone
	ZoneSource ZoneSource `json:"zone_source,omitempty"`

	// OriginTerminal and DestTerminal name terminals for terminal rating
	OriginTerminal string `json:"origin_terminal,omitempty"`
	DestTerminal   string `json:"dest_terminal,omitempty"`

	// PriceClass is the NMFC class priced, when class resolution ran
	PriceClass string `json:"price_class,omitempty"`
}

// RateResult is the itemized outcome of a rate calculation
type RateResult struct {
	// CarrierID is the rated carrier
	CarrierID string `json:"carrier_id"`

	// Format is the strategy that produced the rate
	Format RateFormat `json:"format"`

	// Breakdown is the ordered charge itemization
	Breakdown []ChargeItem `json:"breakdown"`

	// BaseTotal is the charge before surcharges
	BaseTotal decimal.Decimal `json:"base_total"`

	// FinalTotal is the charge after surcharges and accessorials
	FinalTotal decimal.Decimal `json:"final_total"`

	// Currency is the billing currency
	Currency Currency `json:"currency"`

	// TransitDays is the advertised transit time, zero when unknown
	TransitDays int `json:"transit_days,omitempty"`

	// Routing describes zone/terminal/class routing decisions
	Routing RoutingInfo `json:"routing"`
}
