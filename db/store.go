// Package db defines the document-store capability the engine relies on.
// The contract is deliberately narrow: exact-match field filters, ordering
// by one field, and a result limit. The engine substitutes hierarchical
// fallback and client-side filtering for composite indexes, so any store
// that can answer these simple queries can host the rating documents.
package db

import (
	"context"
	"time"

	"freight-rate/core/types"
)

// RegionStore answers region hierarchy queries
type RegionStore interface {
	// GetRegion fetches a region by id
	GetRegion(ctx context.Context, id string) (*types.Region, error)

	// FindRegionByCode fetches a region by canonical code, nil when absent
	FindRegionByCode(ctx context.Context, code string) (*types.Region, error)
}

// ZoneStore answers zone resolution queries
type ZoneStore interface {
	RegionStore

	// FindOverride returns the highest-priority enabled override for a
	// carrier and region pair, nil when none matches. Ties at equal
	// priority break on document id for determinism.
	FindOverride(ctx context.Context, carrierID, serviceID, originRegion, destRegion string) (*types.CarrierZoneOverride, error)

	// FindBinding returns the highest-priority enabled zone set binding
	// for a carrier, nil when none exists
	FindBinding(ctx context.Context, carrierID, serviceID string) (*types.CarrierZoneBinding, error)

	// FindZoneMapping fetches the exact mapping for a region pair within
	// a zone set, nil when absent
	FindZoneMapping(ctx context.Context, zoneSetID, originRegion, destRegion string) (*types.ZoneMapping, error)
}

// ClassStore answers freight class queries
type ClassStore interface {
	// FindFAK returns the FAK mapping at one exact precedence scope,
	// nil when absent. Empty tariffID/customerID mean the global scope.
	FindFAK(ctx context.Context, fromClass, tariffID, customerID string, asOf time.Time) (*types.FAKMapping, error)
}

// TariffStore answers NMFC tariff and rate matrix queries
type TariffStore interface {
	// GetTariff fetches a tariff by id
	GetTariff(ctx context.Context, id string) (*types.Tariff, error)

	// GetBreakSet fetches a break set by id
	GetBreakSet(ctx context.Context, id string) (*types.RatingBreakSet, error)

	// FindBreaks returns a set's breaks ordered by seq
	FindBreaks(ctx context.Context, breakSetID string) ([]types.RatingBreak, error)

	// FindRates returns the rate matrix entries for a tariff and class,
	// keyed by break id
	FindRates(ctx context.Context, tariffID, classCode string) (map[string]types.RateMatrixEntry, error)

	// FindBaseRate returns the published base rate for a tariff and
	// class, nil when absent
	FindBaseRate(ctx context.Context, tariffID, classCode string) (*types.BaseRate, error)
}

// CarrierStore answers carrier configuration and lane rate queries
type CarrierStore interface {
	// GetCarrierConfig fetches a carrier's rating configuration
	GetCarrierConfig(ctx context.Context, carrierID string) (*types.CarrierConfig, error)

	// FindTerminal returns the terminal matching a normalized city and
	// province exactly, nil when absent
	FindTerminal(ctx context.Context, carrierID, city, province string) (*types.Terminal, error)

	// FindTerminalsByProvince returns all of a carrier's terminals in a
	// province, for fuzzy city matching
	FindTerminalsByProvince(ctx context.Context, carrierID, province string) ([]types.Terminal, error)

	// FindTerminalRates returns all rate rows between two terminals
	FindTerminalRates(ctx context.Context, carrierID, originTerminalID, destTerminalID string) ([]types.TerminalRate, error)

	// FindSkidRates returns a carrier's skid rates ordered by skid count
	FindSkidRates(ctx context.Context, carrierID string) ([]types.SkidRate, error)
}

// Store is the full document-store surface consumed by the engine
type Store interface {
	ZoneStore
	ClassStore
	TariffStore
	CarrierStore
}
