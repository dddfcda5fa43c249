// Package rating dispatches rate calculation to format-specific strategies
// and assembles the itemized charge breakdown.
//
// Dispatch is closed: every carrier format is bound to a registered
// strategy, including the formats whose calculation is deliberately
// unimplemented. An unregistered format is an UNIMPLEMENTED error, never a
// silent fall-through.
package rating

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"freight-rate/core/nmfc"
	"freight-rate/core/types"
	"freight-rate/db"
	"freight-rate/internal/errors"
)

// Quote is a strategy's raw output before surcharge layering
type Quote struct {
	// Linehaul is the base charge before surcharges
	Linehaul decimal.Decimal

	// FuelPct is the fuel surcharge percentage to layer on
	FuelPct decimal.Decimal

	// Routing records zone/terminal/class decisions for the response
	Routing types.RoutingInfo
}

// Strategy calculates a quote for one carrier rate format
type Strategy interface {
	// Format returns the carrier format this strategy handles
	Format() types.RateFormat

	// Calculate produces a quote for a shipment
	Calculate(ctx context.Context, shipment types.Shipment, carrier types.CarrierConfig) (*Quote, error)
}

// Registry holds the registered strategies, keyed by format
type Registry struct {
	mu         sync.RWMutex
	strategies map[types.RateFormat]Strategy
}

// NewRegistry creates an empty strategy registry
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[types.RateFormat]Strategy)}
}

// Register adds a strategy, rejecting duplicate formats
func (r *Registry) Register(s Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[s.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "strategy already registered for format %s", s.Format())
	}
	r.strategies[s.Format()] = s
	return nil
}

// Get returns the strategy for a format
func (r *Registry) Get(format types.RateFormat) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[format]
	return s, ok
}

// DefaultRegistry builds a registry covering every known carrier format,
// including the explicit stubs for the formats with no defined calculation.
func DefaultRegistry(store db.Store, classes *nmfc.Resolver, skidFootprintSqIn float64) *Registry {
	r := NewRegistry()
	_ = r.Register(NewTerminalStrategy(store))
	_ = r.Register(NewSkidStrategy(store, skidFootprintSqIn))
	_ = r.Register(NewNMFCStrategy(store, classes))
	_ = r.Register(NewUnimplementedStrategy(types.FormatZoneMatrix))
	_ = r.Register(NewUnimplementedStrategy(types.FormatHybridTerminalZone))
	return r
}

// Formats lists the registered formats
func (r *Registry) Formats() []types.RateFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.RateFormat, 0, len(r.strategies))
	for f := range r.strategies {
		out = append(out, f)
	}
	return out
}
