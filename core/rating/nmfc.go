// Package rating - NMFC tariff strategy (explicit and base-discount)
package rating

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"freight-rate/core/breaks"
	"freight-rate/core/nmfc"
	"freight-rate/core/types"
	"freight-rate/db"
	"freight-rate/internal/errors"
)

// NMFCStrategy rates shipments against an NMFC class tariff. Explicit
// tariffs read per-break rates from the rate matrix; base-discount tariffs
// discount a base tariff's published per-CWT rate and floor at the AMC.
type NMFCStrategy struct {
	store   db.TariffStore
	classes *nmfc.Resolver
}

// NewNMFCStrategy creates the nmfc strategy
func NewNMFCStrategy(store db.TariffStore, classes *nmfc.Resolver) *NMFCStrategy {
	return &NMFCStrategy{store: store, classes: classes}
}

// Format returns the handled carrier format
func (s *NMFCStrategy) Format() types.RateFormat {
	return types.FormatNMFC
}

// CWT returns the billed hundredweight units for a weight
func CWT(weightLbs float64) int64 {
	return int64(math.Ceil(weightLbs / 100))
}

// Calculate resolves the price class and rates it through the tariff
func (s *NMFCStrategy) Calculate(ctx context.Context, shipment types.Shipment, carrier types.CarrierConfig) (*Quote, error) {
	if carrier.TariffID == "" {
		return nil, errors.Newf(errors.TypeConfig, "carrier %s has nmfc format but no tariff", carrier.ID)
	}

	tariff, err := s.store.GetTariff(ctx, carrier.TariffID)
	if err != nil {
		return nil, err
	}

	class, err := s.classes.Resolve(ctx, shipment, tariff.ID)
	if err != nil {
		return nil, err
	}

	cwt := CWT(shipment.TotalWeightLbs)

	var linehaul decimal.Decimal
	switch tariff.PricingMode {
	case types.PricingExplicit:
		linehaul, err = s.explicitCharge(ctx, tariff, class.Price, cwt)
	case types.PricingBaseDiscount:
		linehaul, err = s.baseDiscountCharge(ctx, tariff, class.Price, cwt)
	default:
		err = errors.Newf(errors.TypeConfig, "tariff %s has unknown pricing mode %s", tariff.ID, tariff.PricingMode)
	}
	if err != nil {
		return nil, err
	}

	fuelPct := tariff.FuelSurchargePct
	if fuelPct.IsZero() {
		fuelPct = carrier.FuelSurchargePct
	}

	return &Quote{
		Linehaul: linehaul,
		FuelPct:  fuelPct,
		Routing:  types.RoutingInfo{PriceClass: class.Price},
	}, nil
}

// explicitCharge rates CWT through the tariff's break ladder, billing the
// cheapest applicable break.
func (s *NMFCStrategy) explicitCharge(ctx context.Context, tariff *types.Tariff, classCode string, cwt int64) (decimal.Decimal, error) {
	set, err := s.store.GetBreakSet(ctx, tariff.BreakSetID)
	if err != nil {
		return decimal.Zero, err
	}
	ladder, err := s.store.FindBreaks(ctx, tariff.BreakSetID)
	if err != nil {
		return decimal.Zero, errors.Internal("break lookup failed", err)
	}
	entries, err := s.store.FindRates(ctx, tariff.ID, classCode)
	if err != nil {
		return decimal.Zero, errors.Internal("rate matrix lookup failed", err)
	}

	rates := make(map[string]breaks.Rate, len(entries))
	for breakID, e := range entries {
		rates[breakID] = breaks.Rate{Value: e.RateValue, MinCharge: e.MinCharge}
	}

	// The tariff's own method governs evaluation when set.
	evalSet := *set
	if tariff.Method != "" {
		evalSet.Method = tariff.Method
	}

	cand, err := breaks.Evaluate(float64(cwt), evalSet, ladder, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return cand.Charge, nil
}

// baseDiscountCharge prices off a base tariff's published rate with the
// contract discount, flooring at the absolute minimum charge.
func (s *NMFCStrategy) baseDiscountCharge(ctx context.Context, tariff *types.Tariff, classCode string, cwt int64) (decimal.Decimal, error) {
	baseTariffID := tariff.BaseTariffID
	if baseTariffID == "" {
		baseTariffID = tariff.ID
	}

	base, err := s.store.FindBaseRate(ctx, baseTariffID, classCode)
	if err != nil {
		return decimal.Zero, errors.Internal("base rate lookup failed", err)
	}
	if base == nil {
		return decimal.Zero, errors.Newf(errors.TypeNotFound, "no base rate for class %s in tariff %s", classCode, baseTariffID)
	}

	discount := decimal.NewFromInt(1).Sub(tariff.DiscountPct.Div(hundred))
	discountedRate := base.RateCwt.Mul(discount)
	linehaul := decimal.NewFromInt(cwt).Mul(discountedRate)

	if tariff.AMC.GreaterThan(decimal.Zero) && linehaul.LessThan(tariff.AMC) {
		linehaul = tariff.AMC
	}
	return linehaul, nil
}
