// Package zone - Lane prewarming
package zone

import (
	"context"
	"time"

	"freight-rate/core/region"
)

// Lane identifies a carrier route to warm ahead of traffic
type Lane struct {
	// CarrierID is the carrier to resolve for
	CarrierID string `json:"carrier_id"`

	// ServiceID optionally names a service level
	ServiceID string `json:"service_id,omitempty"`

	// OriginPostal and DestPostal are free-text postal codes
	OriginPostal string `json:"origin_postal"`
	DestPostal   string `json:"dest_postal"`

	// ShipDate buckets the lane key by month
	ShipDate time.Time `json:"ship_date"`
}

// PrewarmLanes resolves and caches lanes that are not already cached.
// The resolution itself is the injected computation; the cache decides
// which keys need warming. Lanes that fail to resolve are skipped and
// reported, not fatal.
func (r *Resolver) PrewarmLanes(ctx context.Context, lanes []Lane) (int, []error) {
	if r.cache == nil {
		return 0, nil
	}

	keys := make([]string, 0, len(lanes))
	byKey := make(map[string]Lane, len(lanes))
	for _, lane := range lanes {
		origin := region.Canonicalize(lane.OriginPostal)
		dest := region.Canonicalize(lane.DestPostal)
		key := CacheKey(lane.CarrierID, lane.ServiceID, origin, dest, lane.ShipDate)
		if _, dup := byKey[key]; dup {
			continue
		}
		keys = append(keys, key)
		byKey[key] = lane
	}

	return r.cache.Prewarm(keys, func(key string) (interface{}, error) {
		lane := byKey[key]
		res, err := r.resolve(ctx, lane.CarrierID, lane.ServiceID,
			region.Canonicalize(lane.OriginPostal), region.Canonicalize(lane.DestPostal))
		if err != nil {
			return nil, err
		}
		return *res, nil
	})
}
