// Package types defines the freight rating domain model.
// All documents here are read-only inputs to the engine; they are supplied
// by an external document store and never mutated by the core.
package types

import "time"

// Currency represents a currency code
type Currency string

const (
	CurrencyCAD Currency = "CAD"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// RegionType identifies a level in the region hierarchy
type RegionType string

const (
	RegionCountry       RegionType = "country"
	RegionStateProvince RegionType = "state_province"
	RegionFSA           RegionType = "fsa"
	RegionZIP3          RegionType = "zip3"
)

// Region is a node in the geographic hierarchy rooted at a country.
// ParentRegionID is a weak reference; a country has none.
type Region struct {
	// ID uniquely identifies the region
	ID string `json:"id"`

	// Code is the canonical region code (e.g. "M5V", "902", "ON", "CA")
	Code string `json:"code"`

	// Type is the hierarchy level
	Type RegionType `json:"type"`

	// ParentRegionID links to the enclosing region, empty for countries
	ParentRegionID string `json:"parent_region_id,omitempty"`

	// Patterns lists postal-code patterns covered by this region
	Patterns []string `json:"patterns,omitempty"`
}

// ZoneSet is a versioned collection of zone mappings for a geography
type ZoneSet struct {
	// ID uniquely identifies the zone set
	ID string `json:"id"`

	// Geography names the coverage area (e.g. "CA-domestic")
	Geography string `json:"geography"`

	// Version is the document version
	Version int `json:"version"`

	// EffectiveFrom is the start of the validity window
	EffectiveFrom time.Time `json:"effective_from"`

	// EffectiveTo is the end of the validity window, zero for open-ended
	EffectiveTo time.Time `json:"effective_to,omitempty"`
}

// ZoneMapping assigns a zone code to a region pair within a zone set.
// Unique per (ZoneSetID, OriginRegionID, DestRegionID).
type ZoneMapping struct {
	// ZoneSetID links to the owning zone set
	ZoneSetID string `json:"zone_set_id"`

	// OriginRegionID is the origin region
	OriginRegionID string `json:"origin_region_id"`

	// DestRegionID is the destination region
	DestRegionID string `json:"dest_region_id"`

	// ZoneCode is the assigned price zone
	ZoneCode string `json:"zone_code"`
}

// CarrierZoneOverride pins a region pair to a zone for one carrier,
// taking precedence over any bound zone set.
type CarrierZoneOverride struct {
	// ID uniquely identifies the override
	ID string `json:"id"`

	// CarrierID is the carrier the override applies to
	CarrierID string `json:"carrier_id"`

	// ServiceID optionally scopes the override to one service
	ServiceID string `json:"service_id,omitempty"`

	// OriginRegionID is the origin region
	OriginRegionID string `json:"origin_region_id"`

	// DestRegionID is the destination region
	DestRegionID string `json:"dest_region_id"`

	// ZoneCode is the forced zone
	ZoneCode string `json:"zone_code"`

	// Priority orders competing overrides; highest wins
	Priority int `json:"priority"`

	// Enabled gates the override
	Enabled bool `json:"enabled"`
}

// CarrierZoneBinding selects which zone set a carrier (or carrier service)
// resolves against.
type CarrierZoneBinding struct {
	// ID uniquely identifies the binding
	ID string `json:"id"`

	// CarrierID is the bound carrier
	CarrierID string `json:"carrier_id"`

	// ServiceID optionally scopes the binding to one service
	ServiceID string `json:"service_id,omitempty"`

	// ZoneSetID is the zone set used for this carrier
	ZoneSetID string `json:"zone_set_id"`

	// Priority orders competing bindings; highest wins
	Priority int `json:"priority"`

	// Enabled gates the binding
	Enabled bool `json:"enabled"`
}

// ZoneSource identifies which fallback level produced a zone resolution
type ZoneSource string

const (
	ZoneSourceCarrierOverride  ZoneSource = "carrier_override"
	ZoneSourceBaseZoneSet      ZoneSource = "base_zone_set"
	ZoneSourceStateToState     ZoneSource = "state_to_state"
	ZoneSourceCountryToCountry ZoneSource = "country_to_country"
)

// ZoneResult is the outcome of a zone resolution
type ZoneResult struct {
	// ZoneCode is the resolved price zone
	ZoneCode string `json:"zone_code"`

	// Source is the fallback level that matched
	Source ZoneSource `json:"source"`

	// OriginRegion is the canonical origin region id
	OriginRegion string `json:"origin_region"`

	// DestRegion is the canonical destination region id
	DestRegion string `json:"dest_region"`

	// ZoneSetID is the zone set consulted, empty for overrides
	ZoneSetID string `json:"zone_set_id,omitempty"`
}
