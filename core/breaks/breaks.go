// Package breaks implements the generic rating break ladder.
// A break set prices a metric (weight, linear feet, skids) against an
// ordered ladder of ranges; among all applicable rungs the engine bills
// the cheapest, which mirrors how LTL carriers actually invoice.
package breaks

import (
	"sort"

	"github.com/shopspring/decimal"

	"freight-rate/core/types"
	"freight-rate/internal/errors"
)

// Rate is the price attached to one break by a rate matrix
type Rate struct {
	// Value is the per-unit rate
	Value decimal.Decimal

	// MinCharge floors the computed charge, zero when unset
	MinCharge decimal.Decimal
}

// Candidate is one applicable break with its computed charge
type Candidate struct {
	// Break is the rung that produced this candidate
	Break types.RatingBreak

	// Units is the billed quantity after extend adjustment
	Units decimal.Decimal

	// RawCharge is Units times the rate, before the minimum floor
	RawCharge decimal.Decimal

	// Charge is the final candidate charge after the minimum floor
	Charge decimal.Decimal

	// Rate is the matrix rate used
	Rate Rate
}

// Evaluate selects the lowest-charge applicable break for a metric value.
// rates maps break id to its matrix rate; breaks without a rate are skipped.
// Returns NOT_FOUND when no break applies or no break carries a rate.
func Evaluate(metric float64, set types.RatingBreakSet, ladder []types.RatingBreak, rates map[string]Rate) (*Candidate, error) {
	metricDec := decimal.NewFromFloat(metric)

	var best *Candidate
	for _, br := range ladder {
		rate, ok := rates[br.ID]
		if !ok {
			continue
		}

		var units decimal.Decimal
		switch set.Method {
		case types.MethodExtend:
			// Deficit rating: bill at least the break minimum.
			units = metricDec
			minDec := decimal.NewFromFloat(br.MinMetric)
			if units.LessThan(minDec) {
				units = minDec
			}
		case types.MethodStep:
			if metric < br.MinMetric {
				continue
			}
			if br.MaxMetric != nil && metric >= *br.MaxMetric {
				continue
			}
			units = metricDec
		default:
			return nil, errors.Newf(errors.TypeInvalidArgument, "unknown break method: %s", set.Method)
		}

		raw := units.Mul(rate.Value)
		charge := raw
		if rate.MinCharge.GreaterThan(charge) {
			charge = rate.MinCharge
		}

		cand := &Candidate{
			Break:     br,
			Units:     units,
			RawCharge: raw,
			Charge:    charge,
			Rate:      rate,
		}
		if best == nil || cand.Charge.LessThan(best.Charge) {
			best = cand
		}
	}

	if best == nil {
		return nil, errors.Newf(errors.TypeNotFound, "no applicable rating break in set %s for metric %v", set.ID, metric)
	}
	return best, nil
}

// ValidateStepSet rejects a step break set whose [min, max) ranges overlap.
// Called at break-set creation time by the admin surface.
func ValidateStepSet(set types.RatingBreakSet, ladder []types.RatingBreak) error {
	if set.Method != types.MethodStep {
		return nil
	}

	sorted := make([]types.RatingBreak, len(ladder))
	copy(sorted, ladder)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinMetric < sorted[j].MinMetric
	})

	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.MaxMetric == nil {
			return errors.Newf(errors.TypeInvalidArgument,
				"break set %s: open-ended break at min %v shadows break at min %v",
				set.ID, cur.MinMetric, next.MinMetric)
		}
		if next.MinMetric < *cur.MaxMetric {
			return errors.Newf(errors.TypeInvalidArgument,
				"break set %s: ranges [%v, %v) and [%v, ...) overlap",
				set.ID, cur.MinMetric, *cur.MaxMetric, next.MinMetric)
		}
	}
	return nil
}
