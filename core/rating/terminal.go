// Package rating - Terminal + weight-break strategy
package rating

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	"freight-rate/db"
	"freight-rate/internal/errors"
)

var hundred = decimal.NewFromInt(100)

// TerminalStrategy rates shipments between carrier terminals using
// weight-banded terminal-pair rates.
type TerminalStrategy struct {
	store db.CarrierStore
}

// NewTerminalStrategy creates the terminal_weight_based strategy
func NewTerminalStrategy(store db.CarrierStore) *TerminalStrategy {
	return &TerminalStrategy{store: store}
}

// Format returns the handled carrier format
func (s *TerminalStrategy) Format() types.RateFormat {
	return types.FormatTerminalWeightBased
}

// Calculate resolves origin and destination terminals, finds the weight
// band covering the shipment, and applies the row's rate formula.
func (s *TerminalStrategy) Calculate(ctx context.Context, shipment types.Shipment, carrier types.CarrierConfig) (*Quote, error) {
	if shipment.OriginCity == "" || shipment.OriginProvince == "" ||
		shipment.DestCity == "" || shipment.DestProvince == "" {
		return nil, errors.InvalidArgument("terminal rating requires origin and destination city/province")
	}

	origin, err := s.findTerminal(ctx, carrier.ID, shipment.OriginCity, shipment.OriginProvince)
	if err != nil {
		return nil, err
	}
	dest, err := s.findTerminal(ctx, carrier.ID, shipment.DestCity, shipment.DestProvince)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.FindTerminalRates(ctx, carrier.ID, origin.ID, dest.ID)
	if err != nil {
		return nil, errors.Internal("terminal rate lookup failed", err)
	}

	weight := shipment.TotalWeightLbs
	var row *types.TerminalRate
	for i := range rows {
		if weight >= rows[i].MinWeightLbs && weight <= rows[i].MaxWeightLbs {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return nil, errors.Newf(errors.TypeNotFound,
			"no terminal rate for %s -> %s at %v lbs", origin.City, dest.City, weight)
	}

	weightDec := decimal.NewFromFloat(weight)
	var charge decimal.Decimal
	switch row.RateType {
	case types.RatePer100Lbs:
		charge = weightDec.Div(hundred).Mul(row.Rate)
	case types.RatePerLb:
		charge = weightDec.Mul(row.Rate)
	case types.RateFlat:
		charge = row.Rate
	default:
		return nil, errors.Newf(errors.TypeInvalidArgument, "unknown rate type: %s", row.RateType)
	}
	if row.MinCharge.GreaterThan(charge) {
		charge = row.MinCharge
	}

	return &Quote{
		Linehaul: charge,
		FuelPct:  carrier.FuelSurchargePct,
		Routing: types.RoutingInfo{
			OriginTerminal: origin.City,
			DestTerminal:   dest.City,
		},
	}, nil
}

// findTerminal tries an exact normalized city+province match, then falls
// back to a substring match within the same province.
func (s *TerminalStrategy) findTerminal(ctx context.Context, carrierID, city, province string) (*types.Terminal, error) {
	term, err := s.store.FindTerminal(ctx, carrierID, city, province)
	if err != nil {
		return nil, errors.Internal("terminal lookup failed", err)
	}
	if term != nil {
		return term, nil
	}

	candidates, err := s.store.FindTerminalsByProvince(ctx, carrierID, province)
	if err != nil {
		return nil, errors.Internal("terminal lookup failed", err)
	}
	needle := strings.ToLower(strings.TrimSpace(city))
	for i := range candidates {
		if strings.Contains(candidates[i].City, needle) || strings.Contains(needle, candidates[i].City) {
			return &candidates[i], nil
		}
	}
	return nil, errors.Newf(errors.TypeNotFound, "no terminal match for %s, %s", city, province)
}
