// Package zone resolves an origin/destination pair to a price zone.
// Resolution is a short-circuiting priority chain: carrier override, the
// carrier's bound zone set at FSA/ZIP3 level, then hierarchical retries at
// state and country level. The first level that matches wins; NOT_FOUND is
// raised only after every level is exhausted.
package zone

import (
	"context"
	"time"

	"go.uber.org/zap"

	"freight-rate/core/cache"
	"freight-rate/core/region"
	"freight-rate/core/types"
	"freight-rate/db"
	"freight-rate/internal/errors"
	"freight-rate/internal/logging"
)

// Resolver resolves price zones for carrier lanes
type Resolver struct {
	store db.ZoneStore
	cache *cache.Cache
}

// NewResolver creates a zone resolver. The cache is optional; pass nil to
// disable memoization.
func NewResolver(store db.ZoneStore, zones *cache.Cache) *Resolver {
	return &Resolver{store: store, cache: zones}
}

// CacheKey builds the composite memoization key for a lane. The ship date
// is truncated to month granularity: bindings and overrides are assumed
// stable within a month.
func CacheKey(carrierID, serviceID, originRegion, destRegion string, shipDate time.Time) string {
	return cache.GenerateKey(carrierID, serviceID, originRegion, destRegion, shipDate, nil)
}

// CacheStats reports zone cache statistics, nil when memoization is off
func (r *Resolver) CacheStats() *cache.Stats {
	if r.cache == nil {
		return nil
	}
	s := r.cache.Stats()
	return &s
}

// CleanupCache sweeps expired zone entries and returns the count removed
func (r *Resolver) CleanupCache() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Cleanup()
}

// Resolve determines the price zone for a carrier lane
func (r *Resolver) Resolve(ctx context.Context, carrierID, serviceID, originPostal, destPostal string, shipDate time.Time) (*types.ZoneResult, error) {
	if carrierID == "" {
		return nil, errors.InvalidArgument("carrier id is required")
	}
	if originPostal == "" || destPostal == "" {
		return nil, errors.InvalidArgument("origin and destination postal codes are required")
	}

	origin := region.Canonicalize(originPostal)
	dest := region.Canonicalize(destPostal)

	key := CacheKey(carrierID, serviceID, origin, dest, shipDate)
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			res := v.(types.ZoneResult)
			return &res, nil
		}
	}

	res, err := r.resolve(ctx, carrierID, serviceID, origin, dest)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(key, *res)
	}
	logging.Debug("zone resolved",
		zap.String("carrier", carrierID),
		zap.String("origin", origin),
		zap.String("dest", dest),
		zap.String("zone", res.ZoneCode),
		zap.String("source", string(res.Source)))
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, carrierID, serviceID, origin, dest string) (*types.ZoneResult, error) {
	override, err := r.store.FindOverride(ctx, carrierID, serviceID, origin, dest)
	if err != nil {
		return nil, errors.Internal("override lookup failed", err)
	}
	if override != nil {
		return &types.ZoneResult{
			ZoneCode:     override.ZoneCode,
			Source:       types.ZoneSourceCarrierOverride,
			OriginRegion: origin,
			DestRegion:   dest,
		}, nil
	}

	binding, err := r.store.FindBinding(ctx, carrierID, serviceID)
	if err != nil {
		return nil, errors.Internal("binding lookup failed", err)
	}
	if binding == nil {
		return nil, errors.Newf(errors.TypeNotFound, "no zone set binding for carrier %s", carrierID)
	}

	mapping, err := r.store.FindZoneMapping(ctx, binding.ZoneSetID, origin, dest)
	if err != nil {
		return nil, errors.Internal("zone mapping lookup failed", err)
	}
	if mapping != nil {
		return &types.ZoneResult{
			ZoneCode:     mapping.ZoneCode,
			Source:       types.ZoneSourceBaseZoneSet,
			OriginRegion: origin,
			DestRegion:   dest,
			ZoneSetID:    binding.ZoneSetID,
		}, nil
	}

	// Hierarchical fallback: retry at state, then country level.
	levels := []struct {
		regionType types.RegionType
		source     types.ZoneSource
	}{
		{types.RegionStateProvince, types.ZoneSourceStateToState},
		{types.RegionCountry, types.ZoneSourceCountryToCountry},
	}
	for _, level := range levels {
		originParent, err := r.parentOfType(ctx, origin, level.regionType)
		if err != nil {
			return nil, err
		}
		destParent, err := r.parentOfType(ctx, dest, level.regionType)
		if err != nil {
			return nil, err
		}
		if originParent == "" || destParent == "" {
			continue
		}
		mapping, err := r.store.FindZoneMapping(ctx, binding.ZoneSetID, originParent, destParent)
		if err != nil {
			return nil, errors.Internal("zone mapping lookup failed", err)
		}
		if mapping != nil {
			return &types.ZoneResult{
				ZoneCode:     mapping.ZoneCode,
				Source:       level.source,
				OriginRegion: origin,
				DestRegion:   dest,
				ZoneSetID:    binding.ZoneSetID,
			}, nil
		}
	}

	return nil, errors.Newf(errors.TypeNotFound, "no zone mapping for route %s -> %s", origin, dest)
}

// parentOfType walks the region tree upward from a canonical code until it
// reaches a region of the wanted type. Returns empty when the chain does
// not reach that level.
func (r *Resolver) parentOfType(ctx context.Context, code string, rt types.RegionType) (string, error) {
	reg, err := r.store.FindRegionByCode(ctx, code)
	if err != nil {
		return "", errors.Internal("region lookup failed", err)
	}
	for reg != nil {
		if reg.Type == rt {
			return reg.Code, nil
		}
		if reg.ParentRegionID == "" {
			return "", nil
		}
		parent, err := r.store.GetRegion(ctx, reg.ParentRegionID)
		if err != nil {
			if errors.IsType(err, errors.TypeNotFound) {
				return "", nil
			}
			return "", errors.Internal("region lookup failed", err)
		}
		reg = parent
	}
	return "", nil
}
