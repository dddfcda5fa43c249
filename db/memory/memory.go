// Package memory provides an in-memory document store.
// It implements the db.Store capability with client-side filtering, the
// same trade-off the engine assumes of its backing store: no composite
// indexes, just exact-match scans with ordering and limits.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"freight-rate/core/types"
	"freight-rate/internal/errors"
)

// Store holds rating documents in memory
type Store struct {
	mu sync.RWMutex

	regions       []types.Region
	zoneSets      []types.ZoneSet
	zoneMappings  []types.ZoneMapping
	overrides     []types.CarrierZoneOverride
	bindings      []types.CarrierZoneBinding
	breakSets     []types.RatingBreakSet
	ratingBreaks  []types.RatingBreak
	faks          []types.FAKMapping
	tariffs       []types.Tariff
	rateMatrix    []types.RateMatrixEntry
	baseRates     []types.BaseRate
	carriers      []types.CarrierConfig
	terminals     []types.Terminal
	terminalRates []types.TerminalRate
	skidRates     []types.SkidRate
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{}
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// AddRegion inserts a region document
func (s *Store) AddRegion(r types.Region) types.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = ensureID(r.ID)
	s.regions = append(s.regions, r)
	return r
}

// AddZoneSet inserts a zone set document
func (s *Store) AddZoneSet(z types.ZoneSet) types.ZoneSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	z.ID = ensureID(z.ID)
	s.zoneSets = append(s.zoneSets, z)
	return z
}

// AddZoneMapping inserts a zone mapping document
func (s *Store) AddZoneMapping(m types.ZoneMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoneMappings = append(s.zoneMappings, m)
}

// AddOverride inserts a carrier zone override document
func (s *Store) AddOverride(o types.CarrierZoneOverride) types.CarrierZoneOverride {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = ensureID(o.ID)
	s.overrides = append(s.overrides, o)
	return o
}

// AddBinding inserts a carrier zone binding document
func (s *Store) AddBinding(b types.CarrierZoneBinding) types.CarrierZoneBinding {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = ensureID(b.ID)
	s.bindings = append(s.bindings, b)
	return b
}

// AddBreakSet inserts a rating break set document
func (s *Store) AddBreakSet(bs types.RatingBreakSet) types.RatingBreakSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	bs.ID = ensureID(bs.ID)
	s.breakSets = append(s.breakSets, bs)
	return bs
}

// AddBreak inserts a rating break document
func (s *Store) AddBreak(b types.RatingBreak) types.RatingBreak {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = ensureID(b.ID)
	s.ratingBreaks = append(s.ratingBreaks, b)
	return b
}

// AddFAK inserts a FAK mapping document
func (s *Store) AddFAK(f types.FAKMapping) types.FAKMapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = ensureID(f.ID)
	s.faks = append(s.faks, f)
	return f
}

// AddTariff inserts a tariff document
func (s *Store) AddTariff(t types.Tariff) types.Tariff {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = ensureID(t.ID)
	s.tariffs = append(s.tariffs, t)
	return t
}

// AddRateMatrixEntry inserts a rate matrix cell
func (s *Store) AddRateMatrixEntry(e types.RateMatrixEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateMatrix = append(s.rateMatrix, e)
}

// AddBaseRate inserts a base rate document
func (s *Store) AddBaseRate(b types.BaseRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseRates = append(s.baseRates, b)
}

// AddCarrierConfig inserts a carrier configuration document
func (s *Store) AddCarrierConfig(c types.CarrierConfig) types.CarrierConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = ensureID(c.ID)
	s.carriers = append(s.carriers, c)
	return c
}

// AddTerminal inserts a terminal document
func (s *Store) AddTerminal(t types.Terminal) types.Terminal {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = ensureID(t.ID)
	t.City = strings.ToLower(strings.TrimSpace(t.City))
	t.Province = strings.ToUpper(strings.TrimSpace(t.Province))
	s.terminals = append(s.terminals, t)
	return t
}

// AddTerminalRate inserts a terminal rate row
func (s *Store) AddTerminalRate(r types.TerminalRate) types.TerminalRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = ensureID(r.ID)
	s.terminalRates = append(s.terminalRates, r)
	return r
}

// AddSkidRate inserts a skid rate row
func (s *Store) AddSkidRate(r types.SkidRate) types.SkidRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = ensureID(r.ID)
	s.skidRates = append(s.skidRates, r)
	return r
}

// GetRegion fetches a region by id
func (s *Store) GetRegion(_ context.Context, id string) (*types.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.regions {
		if s.regions[i].ID == id {
			r := s.regions[i]
			return &r, nil
		}
	}
	return nil, errors.NotFound("region", id)
}

// FindRegionByCode fetches a region by canonical code, nil when absent
func (s *Store) FindRegionByCode(_ context.Context, code string) (*types.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.regions {
		if s.regions[i].Code == code {
			r := s.regions[i]
			return &r, nil
		}
	}
	return nil, nil
}

// FindOverride returns the winning override for a carrier and region pair.
// Service-scoped overrides compete with carrier-wide ones; priority orders
// them and document id breaks ties deterministically.
func (s *Store) FindOverride(_ context.Context, carrierID, serviceID, originRegion, destRegion string) (*types.CarrierZoneOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []types.CarrierZoneOverride
	for _, o := range s.overrides {
		if !o.Enabled || o.CarrierID != carrierID {
			continue
		}
		if o.OriginRegionID != originRegion || o.DestRegionID != destRegion {
			continue
		}
		if o.ServiceID != "" && o.ServiceID != serviceID {
			continue
		}
		matches = append(matches, o)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		return matches[i].ID < matches[j].ID
	})
	return &matches[0], nil
}

// FindBinding returns the highest-priority enabled binding for a carrier
func (s *Store) FindBinding(_ context.Context, carrierID, serviceID string) (*types.CarrierZoneBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []types.CarrierZoneBinding
	for _, b := range s.bindings {
		if !b.Enabled || b.CarrierID != carrierID {
			continue
		}
		if b.ServiceID != "" && b.ServiceID != serviceID {
			continue
		}
		matches = append(matches, b)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		return matches[i].ID < matches[j].ID
	})
	return &matches[0], nil
}

// FindZoneMapping fetches the exact mapping for a region pair
func (s *Store) FindZoneMapping(_ context.Context, zoneSetID, originRegion, destRegion string) (*types.ZoneMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.zoneMappings {
		m := s.zoneMappings[i]
		if m.ZoneSetID == zoneSetID && m.OriginRegionID == originRegion && m.DestRegionID == destRegion {
			return &m, nil
		}
	}
	return nil, nil
}

// FindFAK returns the FAK mapping at one exact precedence scope
func (s *Store) FindFAK(_ context.Context, fromClass, tariffID, customerID string, asOf time.Time) (*types.FAKMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.faks {
		f := s.faks[i]
		if f.FromClassCode != fromClass || f.TariffID != tariffID || f.CustomerID != customerID {
			continue
		}
		if !f.EffectiveFrom.IsZero() && asOf.Before(f.EffectiveFrom) {
			continue
		}
		if !f.EffectiveTo.IsZero() && asOf.After(f.EffectiveTo) {
			continue
		}
		return &f, nil
	}
	return nil, nil
}

// GetTariff fetches a tariff by id
func (s *Store) GetTariff(_ context.Context, id string) (*types.Tariff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tariffs {
		if s.tariffs[i].ID == id {
			t := s.tariffs[i]
			return &t, nil
		}
	}
	return nil, errors.NotFound("tariff", id)
}

// GetBreakSet fetches a break set by id
func (s *Store) GetBreakSet(_ context.Context, id string) (*types.RatingBreakSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.breakSets {
		if s.breakSets[i].ID == id {
			bs := s.breakSets[i]
			return &bs, nil
		}
	}
	return nil, errors.NotFound("break set", id)
}

// FindBreaks returns a set's breaks ordered by seq
func (s *Store) FindBreaks(_ context.Context, breakSetID string) ([]types.RatingBreak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.RatingBreak
	for _, b := range s.ratingBreaks {
		if b.BreakSetID == breakSetID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// FindRates returns matrix entries for a tariff and class keyed by break id
func (s *Store) FindRates(_ context.Context, tariffID, classCode string) (map[string]types.RateMatrixEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.RateMatrixEntry)
	for _, e := range s.rateMatrix {
		if e.TariffID == tariffID && e.ClassCode == classCode {
			out[e.BreakID] = e
		}
	}
	return out, nil
}

// FindBaseRate returns the published base rate for a tariff and class
func (s *Store) FindBaseRate(_ context.Context, tariffID, classCode string) (*types.BaseRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.baseRates {
		b := s.baseRates[i]
		if b.TariffID == tariffID && b.ClassCode == classCode {
			return &b, nil
		}
	}
	return nil, nil
}

// GetCarrierConfig fetches a carrier's rating configuration
func (s *Store) GetCarrierConfig(_ context.Context, carrierID string) (*types.CarrierConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.carriers {
		if s.carriers[i].ID == carrierID {
			c := s.carriers[i]
			return &c, nil
		}
	}
	return nil, errors.NotFound("carrier config", carrierID)
}

// FindTerminal returns the terminal matching city and province exactly
func (s *Store) FindTerminal(_ context.Context, carrierID, city, province string) (*types.Terminal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	city = strings.ToLower(strings.TrimSpace(city))
	province = strings.ToUpper(strings.TrimSpace(province))
	for i := range s.terminals {
		t := s.terminals[i]
		if t.CarrierID == carrierID && t.City == city && t.Province == province {
			return &t, nil
		}
	}
	return nil, nil
}

// FindTerminalsByProvince returns a carrier's terminals in a province
func (s *Store) FindTerminalsByProvince(_ context.Context, carrierID, province string) ([]types.Terminal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	province = strings.ToUpper(strings.TrimSpace(province))
	var out []types.Terminal
	for _, t := range s.terminals {
		if t.CarrierID == carrierID && t.Province == province {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindTerminalRates returns all rate rows between two terminals
func (s *Store) FindTerminalRates(_ context.Context, carrierID, originTerminalID, destTerminalID string) ([]types.TerminalRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.TerminalRate
	for _, r := range s.terminalRates {
		if r.CarrierID == carrierID && r.OriginTerminalID == originTerminalID && r.DestTerminalID == destTerminalID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinWeightLbs < out[j].MinWeightLbs })
	return out, nil
}

// FindSkidRates returns a carrier's skid rates ordered by skid count
func (s *Store) FindSkidRates(_ context.Context, carrierID string) ([]types.SkidRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.SkidRate
	for _, r := range s.skidRates {
		if r.CarrierID == carrierID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkidCount < out[j].SkidCount })
	return out, nil
}

// DocumentCounts summarizes store contents per collection
type DocumentCounts struct {
	Carriers  int `json:"carriers"`
	Tariffs   int `json:"tariffs"`
	ZoneSets  int `json:"zone_sets"`
	Overrides int `json:"overrides"`
	FAKs      int `json:"faks"`
	Terminals int `json:"terminals"`
}

// Counts reports how many documents each collection holds
func (s *Store) Counts() DocumentCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DocumentCounts{
		Carriers:  len(s.carriers),
		Tariffs:   len(s.tariffs),
		ZoneSets:  len(s.zoneSets),
		Overrides: len(s.overrides),
		FAKs:      len(s.faks),
		Terminals: len(s.terminals),
	}
}
