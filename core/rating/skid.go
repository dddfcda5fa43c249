// Package rating - Skid-table strategy
package rating

import (
	"context"
	"fmt"
	"math"

	"freight-rate/core/types"
	"freight-rate/db"
	"freight-rate/internal/errors"
)

// StandardSkidFootprintSqIn is the footprint of one skid position,
// 48 by 48 inches.
const StandardSkidFootprintSqIn = 48 * 48

// SkidStrategy rates shipments by skid-position count against a carrier's
// flat skid table.
type SkidStrategy struct {
	store           db.CarrierStore
	skidFootprintIn float64
}

// NewSkidStrategy creates the skid_based strategy. footprintSqIn overrides
// the standard skid footprint; pass 0 for the 48x48 default.
func NewSkidStrategy(store db.CarrierStore, footprintSqIn float64) *SkidStrategy {
	if footprintSqIn <= 0 {
		footprintSqIn = StandardSkidFootprintSqIn
	}
	return &SkidStrategy{store: store, skidFootprintIn: footprintSqIn}
}

// Format returns the handled carrier format
func (s *SkidStrategy) Format() types.RateFormat {
	return types.FormatSkidBased
}

// SkidEquivalents converts a total floor footprint to skid positions
func (s *SkidStrategy) SkidEquivalents(footprintSqIn float64) int {
	if footprintSqIn <= 0 {
		return 0
	}
	return int(math.Ceil(footprintSqIn / s.skidFootprintIn))
}

// Calculate selects the skid rate row for the shipment's skid equivalents:
// exact count, else the smallest count at or above, else the largest row.
func (s *SkidStrategy) Calculate(ctx context.Context, shipment types.Shipment, carrier types.CarrierConfig) (*Quote, error) {
	skids := s.SkidEquivalents(shipment.FootprintSqIn)
	if skids == 0 {
		return nil, errors.InvalidArgument("skid rating requires a positive shipment footprint")
	}

	rows, err := s.store.FindSkidRates(ctx, carrier.ID)
	if err != nil {
		return nil, errors.Internal("skid rate lookup failed", err)
	}
	if len(rows) == 0 {
		return nil, errors.NotFound("skid rates", carrier.ID)
	}

	// Rows arrive ordered by skid count; the first row at or above the
	// requested count covers it, otherwise the largest row applies.
	row := rows[len(rows)-1]
	for _, r := range rows {
		if r.SkidCount >= skids {
			row = r
			break
		}
	}

	return &Quote{
		Linehaul: row.Rate,
		FuelPct:  carrier.FuelSurchargePct,
	}, nil
}

// String describes the strategy for logs
func (s *SkidStrategy) String() string {
	return fmt.Sprintf("skid_based(footprint=%v sq in)", s.skidFootprintIn)
}
