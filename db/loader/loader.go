// Package loader reads human-authored rating documents from HCL files and
// seeds a document store with them. HCL keeps carrier tariffs, zone maps,
// and break ladders reviewable as plain text under version control.
package loader

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"freight-rate/core/breaks"
	"freight-rate/core/types"
	"freight-rate/db/memory"
	"freight-rate/internal/errors"
)

type regionBlock struct {
	Code     string   `hcl:"code,label"`
	Type     string   `hcl:"type"`
	Parent   string   `hcl:"parent,optional"`
	Patterns []string `hcl:"patterns,optional"`
}

type mappingBlock struct {
	Origin string `hcl:"origin"`
	Dest   string `hcl:"dest"`
	Zone   string `hcl:"zone"`
}

type zoneSetBlock struct {
	ID            string         `hcl:"id,label"`
	Geography     string         `hcl:"geography"`
	Version       int            `hcl:"version,optional"`
	EffectiveFrom string         `hcl:"effective_from,optional"`
	EffectiveTo   string         `hcl:"effective_to,optional"`
	Mappings      []mappingBlock `hcl:"mapping,block"`
}

type overrideBlock struct {
	CarrierID string `hcl:"carrier"`
	ServiceID string `hcl:"service,optional"`
	Origin    string `hcl:"origin"`
	Dest      string `hcl:"dest"`
	Zone      string `hcl:"zone"`
	Priority  int    `hcl:"priority,optional"`
	Enabled   *bool  `hcl:"enabled,optional"`
}

type bindingBlock struct {
	CarrierID string `hcl:"carrier"`
	ServiceID string `hcl:"service,optional"`
	ZoneSetID string `hcl:"zone_set"`
	Priority  int    `hcl:"priority,optional"`
	Enabled   *bool  `hcl:"enabled,optional"`
}

type breakBlock struct {
	ID  string   `hcl:"id,label"`
	Min float64  `hcl:"min"`
	Max *float64 `hcl:"max,optional"`
	Seq int      `hcl:"seq,optional"`
}

type breakSetBlock struct {
	ID     string       `hcl:"id,label"`
	Name   string       `hcl:"name,optional"`
	Metric string       `hcl:"metric"`
	Unit   string       `hcl:"unit,optional"`
	Method string       `hcl:"method"`
	Breaks []breakBlock `hcl:"break,block"`
}

type rateBlock struct {
	BreakID   string  `hcl:"break"`
	ClassCode string  `hcl:"class"`
	Rate      float64 `hcl:"rate"`
	MinCharge float64 `hcl:"min_charge,optional"`
}

type baseRateBlock struct {
	ClassCode string  `hcl:"class"`
	RateCwt   float64 `hcl:"rate_cwt"`
}

type tariffBlock struct {
	ID               string          `hcl:"id,label"`
	Name             string          `hcl:"name,optional"`
	PricingMode      string          `hcl:"pricing_mode"`
	BreakSetID       string          `hcl:"break_set,optional"`
	BaseTariffID     string          `hcl:"base_tariff,optional"`
	DiscountPct      float64         `hcl:"discount_pct,optional"`
	AMC              float64         `hcl:"amc,optional"`
	FuelSurchargePct float64         `hcl:"fuel_surcharge_pct,optional"`
	Method           string          `hcl:"method,optional"`
	Rates            []rateBlock     `hcl:"rate,block"`
	BaseRates        []baseRateBlock `hcl:"base_rate,block"`
}

type fakBlock struct {
	TariffID      string `hcl:"tariff,optional"`
	CustomerID    string `hcl:"customer,optional"`
	FromClass     string `hcl:"from_class"`
	ToClass       string `hcl:"to_class"`
	EffectiveFrom string `hcl:"effective_from,optional"`
	EffectiveTo   string `hcl:"effective_to,optional"`
}

type terminalBlock struct {
	City     string `hcl:"city"`
	Province string `hcl:"province"`
}

type terminalRateBlock struct {
	OriginCity     string  `hcl:"origin_city"`
	OriginProvince string  `hcl:"origin_province"`
	DestCity       string  `hcl:"dest_city"`
	DestProvince   string  `hcl:"dest_province"`
	MinWeight      float64 `hcl:"min_weight"`
	MaxWeight      float64 `hcl:"max_weight"`
	RateType       string  `hcl:"rate_type"`
	Rate           float64 `hcl:"rate"`
	MinCharge      float64 `hcl:"min_charge,optional"`
}

type skidRateBlock struct {
	SkidCount int     `hcl:"skids"`
	Rate      float64 `hcl:"rate"`
}

type carrierBlock struct {
	ID               string              `hcl:"id,label"`
	Name             string              `hcl:"name,optional"`
	Format           string              `hcl:"format"`
	TariffID         string              `hcl:"tariff,optional"`
	FuelSurchargePct float64             `hcl:"fuel_surcharge_pct,optional"`
	Currency         string              `hcl:"currency,optional"`
	TransitDays      int                 `hcl:"transit_days,optional"`
	Terminals        []terminalBlock     `hcl:"terminal,block"`
	TerminalRates    []terminalRateBlock `hcl:"terminal_rate,block"`
	SkidRates        []skidRateBlock     `hcl:"skid_rate,block"`
}

type documentFile struct {
	Regions   []regionBlock   `hcl:"region,block"`
	ZoneSets  []zoneSetBlock  `hcl:"zone_set,block"`
	Overrides []overrideBlock `hcl:"zone_override,block"`
	Bindings  []bindingBlock  `hcl:"zone_binding,block"`
	BreakSets []breakSetBlock `hcl:"break_set,block"`
	Tariffs   []tariffBlock   `hcl:"tariff,block"`
	FAKs      []fakBlock      `hcl:"fak,block"`
	Carriers  []carrierBlock  `hcl:"carrier,block"`
}

// LoadDir parses every .hcl file in a directory into a fresh in-memory
// store. Step break sets are validated for range overlap at load time.
func LoadDir(dir string) (*memory.Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "cannot read document directory", err)
	}

	store := memory.NewStore()
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".hcl") {
			continue
		}
		if err := LoadFile(filepath.Join(dir, entry.Name()), store); err != nil {
			return nil, err
		}
		loaded++
	}
	if loaded == 0 {
		return nil, errors.Newf(errors.TypeConfig, "no .hcl documents in %s", dir)
	}
	return store, nil
}

// LoadFile parses one HCL document file into an existing store
func LoadFile(path string, store *memory.Store) error {
	var doc documentFile
	if err := hclsimple.DecodeFile(path, nil, &doc); err != nil {
		return errors.Parsing("parse "+path, err)
	}
	return seed(&doc, store)
}

func seed(doc *documentFile, store *memory.Store) error {
	codeToID := make(map[string]string)
	for _, r := range doc.Regions {
		reg := store.AddRegion(types.Region{
			Code:           r.Code,
			Type:           types.RegionType(r.Type),
			ParentRegionID: codeToID[r.Parent],
			Patterns:       r.Patterns,
		})
		codeToID[r.Code] = reg.ID
	}

	for _, zs := range doc.ZoneSets {
		from, err := parseDate(zs.EffectiveFrom)
		if err != nil {
			return err
		}
		to, err := parseDate(zs.EffectiveTo)
		if err != nil {
			return err
		}
		set := store.AddZoneSet(types.ZoneSet{
			ID: zs.ID, Geography: zs.Geography, Version: zs.Version,
			EffectiveFrom: from, EffectiveTo: to,
		})
		for _, m := range zs.Mappings {
			store.AddZoneMapping(types.ZoneMapping{
				ZoneSetID: set.ID, OriginRegionID: m.Origin, DestRegionID: m.Dest, ZoneCode: m.Zone,
			})
		}
	}

	for _, o := range doc.Overrides {
		store.AddOverride(types.CarrierZoneOverride{
			CarrierID: o.CarrierID, ServiceID: o.ServiceID,
			OriginRegionID: o.Origin, DestRegionID: o.Dest,
			ZoneCode: o.Zone, Priority: o.Priority, Enabled: enabled(o.Enabled),
		})
	}
	for _, b := range doc.Bindings {
		store.AddBinding(types.CarrierZoneBinding{
			CarrierID: b.CarrierID, ServiceID: b.ServiceID,
			ZoneSetID: b.ZoneSetID, Priority: b.Priority, Enabled: enabled(b.Enabled),
		})
	}

	for _, bs := range doc.BreakSets {
		set := types.RatingBreakSet{
			ID: bs.ID, Name: bs.Name,
			Metric: types.BreakMetric(bs.Metric), Unit: bs.Unit,
			Method: types.BreakMethod(bs.Method),
		}
		var ladder []types.RatingBreak
		for i, b := range bs.Breaks {
			seq := b.Seq
			if seq == 0 {
				seq = i + 1
			}
			ladder = append(ladder, types.RatingBreak{
				ID: b.ID, BreakSetID: set.ID,
				MinMetric: b.Min, MaxMetric: b.Max, Seq: seq,
			})
		}
		if err := breaks.ValidateStepSet(set, ladder); err != nil {
			return err
		}
		store.AddBreakSet(set)
		for _, b := range ladder {
			store.AddBreak(b)
		}
	}

	for _, tb := range doc.Tariffs {
		store.AddTariff(types.Tariff{
			ID: tb.ID, Name: tb.Name,
			PricingMode:      types.PricingMode(tb.PricingMode),
			BreakSetID:       tb.BreakSetID,
			BaseTariffID:     tb.BaseTariffID,
			DiscountPct:      decimal.NewFromFloat(tb.DiscountPct),
			AMC:              decimal.NewFromFloat(tb.AMC),
			FuelSurchargePct: decimal.NewFromFloat(tb.FuelSurchargePct),
			Method:           types.BreakMethod(tb.Method),
		})
		for _, r := range tb.Rates {
			store.AddRateMatrixEntry(types.RateMatrixEntry{
				TariffID: tb.ID, BreakID: r.BreakID, ClassCode: r.ClassCode,
				RateValue: decimal.NewFromFloat(r.Rate),
				MinCharge: decimal.NewFromFloat(r.MinCharge),
			})
		}
		for _, br := range tb.BaseRates {
			store.AddBaseRate(types.BaseRate{
				TariffID: tb.ID, ClassCode: br.ClassCode,
				RateCwt: decimal.NewFromFloat(br.RateCwt),
			})
		}
	}

	for _, f := range doc.FAKs {
		from, err := parseDate(f.EffectiveFrom)
		if err != nil {
			return err
		}
		to, err := parseDate(f.EffectiveTo)
		if err != nil {
			return err
		}
		store.AddFAK(types.FAKMapping{
			TariffID: f.TariffID, CustomerID: f.CustomerID,
			FromClassCode: f.FromClass, ToClassCode: f.ToClass,
			EffectiveFrom: from, EffectiveTo: to,
		})
	}

	for _, c := range doc.Carriers {
		store.AddCarrierConfig(types.CarrierConfig{
			ID: c.ID, Name: c.Name,
			Format:           types.RateFormat(c.Format),
			TariffID:         c.TariffID,
			FuelSurchargePct: decimal.NewFromFloat(c.FuelSurchargePct),
			Currency:         types.Currency(c.Currency),
			TransitDays:      c.TransitDays,
		})

		terminalIDs := make(map[string]string)
		for _, tb := range c.Terminals {
			term := store.AddTerminal(types.Terminal{
				CarrierID: c.ID, City: tb.City, Province: tb.Province,
			})
			terminalIDs[term.City+"|"+term.Province] = term.ID
		}
		for _, tr := range c.TerminalRates {
			originID, ok := terminalIDs[terminalKey(tr.OriginCity, tr.OriginProvince)]
			if !ok {
				return errors.Newf(errors.TypeConfig,
					"carrier %s: terminal_rate references unknown terminal %s, %s", c.ID, tr.OriginCity, tr.OriginProvince)
			}
			destID, ok := terminalIDs[terminalKey(tr.DestCity, tr.DestProvince)]
			if !ok {
				return errors.Newf(errors.TypeConfig,
					"carrier %s: terminal_rate references unknown terminal %s, %s", c.ID, tr.DestCity, tr.DestProvince)
			}
			store.AddTerminalRate(types.TerminalRate{
				CarrierID: c.ID, OriginTerminalID: originID, DestTerminalID: destID,
				MinWeightLbs: tr.MinWeight, MaxWeightLbs: tr.MaxWeight,
				RateType:  types.RateType(tr.RateType),
				Rate:      decimal.NewFromFloat(tr.Rate),
				MinCharge: decimal.NewFromFloat(tr.MinCharge),
			})
		}
		for _, sr := range c.SkidRates {
			store.AddSkidRate(types.SkidRate{
				CarrierID: c.ID, SkidCount: sr.SkidCount,
				Rate: decimal.NewFromFloat(sr.Rate),
			})
		}
	}

	return nil
}

func terminalKey(city, province string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToUpper(strings.TrimSpace(province))
}

func enabled(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.Parsing("invalid date "+s, err)
	}
	return t, nil
}
