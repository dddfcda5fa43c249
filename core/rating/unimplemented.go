// Package rating - Explicitly unimplemented formats
package rating

import (
	"context"

	"freight-rate/core/types"
	"freight-rate/internal/errors"
)

// UnimplementedStrategy registers a format whose calculation has no
// defined algorithm. It fails loudly instead of guessing: zone_matrix and
// hybrid_terminal_zone carriers exist in configuration, but their rating
// rules were never specified.
type UnimplementedStrategy struct {
	format types.RateFormat
}

// NewUnimplementedStrategy creates a stub for an undefined format
func NewUnimplementedStrategy(format types.RateFormat) *UnimplementedStrategy {
	return &UnimplementedStrategy{format: format}
}

// Format returns the stubbed carrier format
func (s *UnimplementedStrategy) Format() types.RateFormat {
	return s.format
}

// Calculate always fails with UNIMPLEMENTED
func (s *UnimplementedStrategy) Calculate(_ context.Context, _ types.Shipment, _ types.CarrierConfig) (*Quote, error) {
	return nil, errors.Unimplemented(string(s.format) + " rating")
}
