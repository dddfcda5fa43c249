// Package rating - Rate calculation engine
package rating

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"freight-rate/core/cache"
	"freight-rate/core/region"
	"freight-rate/core/types"
	"freight-rate/core/zone"
	"freight-rate/db"
	"freight-rate/internal/errors"
	"freight-rate/internal/logging"
)

// EngineParams wires the engine's collaborators. Cache instances are
// constructed by the host and injected; the engine never creates ambient
// global caches.
type EngineParams struct {
	// Store is the backing document store
	Store db.Store

	// Registry holds the format strategies
	Registry *Registry

	// Zones resolves price zones
	Zones *zone.Resolver

	// RateCache memoizes rate calculations, nil to disable
	RateCache *cache.Cache

	// CarrierCache memoizes carrier configurations, nil to disable
	CarrierCache *cache.Cache

	// DefaultCurrency applies when a carrier declares none
	DefaultCurrency types.Currency
}

// Engine computes itemized freight charges
type Engine struct {
	store    db.Store
	registry *Registry
	zones    *zone.Resolver
	rates    *cache.Cache
	carriers *cache.Cache
	currency types.Currency
}

// NewEngine creates a rate calculation engine
func NewEngine(p EngineParams) *Engine {
	currency := p.DefaultCurrency
	if currency == "" {
		currency = types.CurrencyCAD
	}
	return &Engine{
		store:    p.Store,
		registry: p.Registry,
		zones:    p.Zones,
		rates:    p.RateCache,
		carriers: p.CarrierCache,
		currency: currency,
	}
}

// ResolveZone resolves the price zone for a lane
func (e *Engine) ResolveZone(ctx context.Context, carrierID, serviceID, originPostal, destPostal string, shipDate time.Time) (*types.ZoneResult, error) {
	return e.zones.Resolve(ctx, carrierID, serviceID, originPostal, destPostal, shipDate)
}

// PrewarmLanes warms the zone cache for known-busy lanes
func (e *Engine) PrewarmLanes(ctx context.Context, lanes []zone.Lane) (int, []error) {
	return e.zones.PrewarmLanes(ctx, lanes)
}

// CalculateRate computes the itemized charge for a shipment. Results are
// memoized by composite lane key; a cache miss triggers synchronous
// recomputation and is never an error.
func (e *Engine) CalculateRate(ctx context.Context, shipment types.Shipment) (*types.RateResult, error) {
	if err := validateShipment(shipment); err != nil {
		return nil, err
	}
	if shipment.ShipDate.IsZero() {
		shipment.ShipDate = time.Now()
	}

	carrier, err := e.carrierConfig(ctx, shipment.CarrierID)
	if err != nil {
		return nil, err
	}

	key := e.rateKey(shipment, carrier)
	if e.rates != nil {
		if v, ok := e.rates.Get(key); ok {
			res := v.(types.RateResult)
			return &res, nil
		}
	}

	strategy, ok := e.registry.Get(carrier.Format)
	if !ok {
		return nil, errors.Unimplemented(string(carrier.Format) + " rating")
	}

	quote, err := strategy.Calculate(ctx, shipment, *carrier)
	if err != nil {
		return nil, err
	}

	result := e.assemble(shipment, carrier, quote)
	if e.rates != nil {
		e.rates.Set(key, *result)
	}

	logging.Info("rate calculated",
		zap.String("carrier", carrier.ID),
		zap.String("format", string(carrier.Format)),
		zap.String("total", result.FinalTotal.StringFixed(2)),
		zap.String("currency", string(result.Currency)))
	return result, nil
}

// assemble layers fuel surcharge and accessorials onto the linehaul and
// builds the ordered breakdown.
func (e *Engine) assemble(shipment types.Shipment, carrier *types.CarrierConfig, quote *Quote) *types.RateResult {
	fuel := quote.Linehaul.Mul(quote.FuelPct).Div(hundred)
	accessorials := e.accessorialCharges(shipment)
	total := quote.Linehaul.Add(fuel).Add(accessorials)

	currency := carrier.Currency
	if currency == "" {
		currency = e.currency
	}

	return &types.RateResult{
		CarrierID: carrier.ID,
		Format:    carrier.Format,
		Breakdown: []types.ChargeItem{
			{Label: "Linehaul", Amount: quote.Linehaul},
			{Label: "Fuel Surcharge", Amount: fuel},
			{Label: "Accessorials", Amount: accessorials},
		},
		BaseTotal:   quote.Linehaul,
		FinalTotal:  total,
		Currency:    currency,
		TransitDays: carrier.TransitDays,
		Routing:     quote.Routing,
	}
}

// accessorialCharges is a zero-value contract: accessorial rating has no
// defined algorithm yet, so the line item is always present and always 0.
func (e *Engine) accessorialCharges(_ types.Shipment) decimal.Decimal {
	return decimal.Zero
}

// carrierConfig fetches a carrier configuration through the config cache
func (e *Engine) carrierConfig(ctx context.Context, carrierID string) (*types.CarrierConfig, error) {
	if e.carriers != nil {
		if v, ok := e.carriers.Get(carrierID); ok {
			cfg := v.(types.CarrierConfig)
			return &cfg, nil
		}
	}
	cfg, err := e.store.GetCarrierConfig(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if e.carriers != nil {
		e.carriers.Set(carrierID, *cfg)
	}
	return cfg, nil
}

// rateKey builds the composite memoization key for a rate calculation.
// Every shipment field a strategy rates on must appear in the key, or two
// shipments sharing a postal prefix would collide on one cached charge.
func (e *Engine) rateKey(shipment types.Shipment, carrier *types.CarrierConfig) string {
	extra := map[string]string{
		"format": string(carrier.Format),
		"weight": strconv.FormatFloat(shipment.TotalWeightLbs, 'f', 1, 64),
	}
	if shipment.OriginCity != "" {
		extra["origin_city"] = normalizeCity(shipment.OriginCity)
	}
	if shipment.OriginProvince != "" {
		extra["origin_province"] = normalizeProvince(shipment.OriginProvince)
	}
	if shipment.DestCity != "" {
		extra["dest_city"] = normalizeCity(shipment.DestCity)
	}
	if shipment.DestProvince != "" {
		extra["dest_province"] = normalizeProvince(shipment.DestProvince)
	}
	if shipment.TotalCubeFt > 0 {
		extra["cube"] = strconv.FormatFloat(shipment.TotalCubeFt, 'f', 1, 64)
	}
	if shipment.FootprintSqIn > 0 {
		extra["footprint"] = strconv.FormatFloat(shipment.FootprintSqIn, 'f', 0, 64)
	}
	if shipment.DeclaredClass != "" {
		extra["class"] = shipment.DeclaredClass
	}
	if shipment.CustomerID != "" {
		extra["customer"] = shipment.CustomerID
	}
	return cache.GenerateKey(
		shipment.CarrierID, shipment.ServiceID,
		region.Canonicalize(shipment.OriginPostal), region.Canonicalize(shipment.DestPostal),
		shipment.ShipDate, extra)
}

// CacheStats reports statistics for every cache domain the engine touches
func (e *Engine) CacheStats() []cache.Stats {
	var out []cache.Stats
	if zs := e.zones.CacheStats(); zs != nil {
		out = append(out, *zs)
	}
	if e.rates != nil {
		out = append(out, e.rates.Stats())
	}
	if e.carriers != nil {
		out = append(out, e.carriers.Stats())
	}
	return out
}

// CleanupCaches sweeps expired entries from the engine's cache domains
// and returns the total removed.
func (e *Engine) CleanupCaches() int {
	removed := e.zones.CleanupCache()
	if e.rates != nil {
		removed += e.rates.Cleanup()
	}
	if e.carriers != nil {
		removed += e.carriers.Cleanup()
	}
	return removed
}

// normalizeCity and normalizeProvince match the store's terminal
// normalization so equal locations always produce equal key parts.
func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func normalizeProvince(province string) string {
	return strings.ToUpper(strings.TrimSpace(province))
}

func validateShipment(s types.Shipment) error {
	if s.CarrierID == "" {
		return errors.InvalidArgument("carrier id is required")
	}
	if s.OriginPostal == "" || s.DestPostal == "" {
		return errors.InvalidArgument("origin and destination postal codes are required")
	}
	if s.TotalWeightLbs <= 0 {
		return errors.InvalidArgument("total weight must be positive")
	}
	return nil
}
