// Package nmfc - Freight class resolver
package nmfc

import (
	"context"
	"time"

	"freight-rate/core/types"
)

// FAKStore looks up class pricing overrides at one precedence scope.
// An empty tariffID or customerID means the global (unscoped) mapping.
// Implementations return nil with no error when no mapping exists.
type FAKStore interface {
	FindFAK(ctx context.Context, fromClass, tariffID, customerID string, asOf time.Time) (*types.FAKMapping, error)
}

// Resolver determines actual and price freight classes
type Resolver struct {
	faks FAKStore
}

// NewResolver creates a class resolver backed by a FAK store
func NewResolver(faks FAKStore) *Resolver {
	return &Resolver{faks: faks}
}

// Resolve determines the shipment's class. A declared class wins outright;
// otherwise the class is derived from density. The price class then passes
// through FAK precedence: customer-specific, tariff-specific, global.
func (r *Resolver) Resolve(ctx context.Context, shipment types.Shipment, tariffID string) (types.ClassResolution, error) {
	res := types.ClassResolution{}

	if shipment.DeclaredClass != "" {
		res.Actual = shipment.DeclaredClass
		res.Source = types.ClassSourceDeclared
	} else if shipment.TotalCubeFt <= 0 {
		res.Actual = DefaultClass
		res.Source = types.ClassSourceDensityCalculated
	} else {
		res.DensityPCF = shipment.TotalWeightLbs / shipment.TotalCubeFt
		res.Actual = ClassForDensity(res.DensityPCF)
		res.Source = types.ClassSourceDensityCalculated
	}

	res.Price = res.Actual

	// A zero ship date would slip past every dated mapping's effective
	// window; treat it as "today".
	asOf := shipment.ShipDate
	if asOf.IsZero() {
		asOf = time.Now()
	}

	mapping, err := r.findFAK(ctx, res.Actual, tariffID, shipment.CustomerID, asOf)
	if err != nil {
		return types.ClassResolution{}, err
	}
	if mapping != nil {
		res.Price = mapping.ToClassCode
		res.Source = types.ClassSourceFAKMapped
	}
	return res, nil
}

// findFAK walks the precedence chain; the first scope with a match wins.
func (r *Resolver) findFAK(ctx context.Context, fromClass, tariffID, customerID string, asOf time.Time) (*types.FAKMapping, error) {
	scopes := []struct{ tariff, customer string }{
		{tariffID, customerID},
		{tariffID, ""},
		{"", ""},
	}
	for i, s := range scopes {
		if i > 0 && s == scopes[i-1] {
			continue
		}
		m, err := r.faks.FindFAK(ctx, fromClass, s.tariff, s.customer, asOf)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}
