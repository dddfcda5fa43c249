package breaks

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-rate/core/types"
	"freight-rate/internal/errors"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func fptr(f float64) *float64 { return &f }

func TestEvaluateExtendBillsBreakMinimum(t *testing.T) {
	set := types.RatingBreakSet{ID: "bs1", Metric: types.MetricWeight, Method: types.MethodExtend}
	ladder := []types.RatingBreak{
		{ID: "b1", BreakSetID: "bs1", MinMetric: 50, Seq: 1},
	}
	rates := map[string]Rate{
		"b1": {Value: dec("2.0")},
	}

	cand, err := Evaluate(40, set, ladder, rates)
	require.NoError(t, err)

	// 40 units extends up to the 50 minimum: 50 * 2.0 = 100, not 80.
	assert.True(t, cand.Units.Equal(dec("50")), "units = %s", cand.Units)
	assert.True(t, cand.Charge.Equal(dec("100")), "charge = %s", cand.Charge)
}

func TestEvaluateStepRangeBounds(t *testing.T) {
	set := types.RatingBreakSet{ID: "bs1", Metric: types.MetricWeight, Method: types.MethodStep}
	ladder := []types.RatingBreak{
		{ID: "b1", MinMetric: 0, MaxMetric: fptr(500), Seq: 1},
		{ID: "b2", MinMetric: 500, MaxMetric: fptr(1000), Seq: 2},
		{ID: "b3", MinMetric: 1000, Seq: 3},
	}
	rates := map[string]Rate{
		"b1": {Value: dec("1.0")},
		"b2": {Value: dec("0.8")},
		"b3": {Value: dec("0.6")},
	}

	cand, err := Evaluate(500, set, ladder, rates)
	require.NoError(t, err)
	assert.Equal(t, "b2", cand.Break.ID, "500 is exclusive upper bound of b1, inclusive lower of b2")

	cand, err = Evaluate(1500, set, ladder, rates)
	require.NoError(t, err)
	assert.Equal(t, "b3", cand.Break.ID, "open-ended break covers large metrics")
}

func TestEvaluateSelectsLowestCharge(t *testing.T) {
	set := types.RatingBreakSet{ID: "bs1", Metric: types.MetricWeight, Method: types.MethodExtend}
	ladder := []types.RatingBreak{
		{ID: "b1", MinMetric: 0, Seq: 1},
		{ID: "b2", MinMetric: 100, Seq: 2},
	}
	rates := map[string]Rate{
		"b1": {Value: dec("1.5")}, // 80 * 1.5 = 120
		"b2": {Value: dec("0.95")}, // extends to 100 * 0.95 = 95
	}

	cand, err := Evaluate(80, set, ladder, rates)
	require.NoError(t, err)
	assert.Equal(t, "b2", cand.Break.ID)
	assert.True(t, cand.Charge.Equal(dec("95")), "charge = %s", cand.Charge)
}

func TestEvaluateMinChargeFloor(t *testing.T) {
	set := types.RatingBreakSet{ID: "bs1", Method: types.MethodExtend}
	ladder := []types.RatingBreak{{ID: "b1", MinMetric: 0}}
	rates := map[string]Rate{
		"b1": {Value: dec("1.0"), MinCharge: dec("75")},
	}

	cand, err := Evaluate(10, set, ladder, rates)
	require.NoError(t, err)
	assert.True(t, cand.RawCharge.Equal(dec("10")))
	assert.True(t, cand.Charge.Equal(dec("75")), "minimum charge must floor the raw charge")
}

func TestEvaluateNoApplicableBreak(t *testing.T) {
	set := types.RatingBreakSet{ID: "bs1", Method: types.MethodStep}
	ladder := []types.RatingBreak{
		{ID: "b1", MinMetric: 100, MaxMetric: fptr(200)},
	}
	rates := map[string]Rate{"b1": {Value: dec("1.0")}}

	_, err := Evaluate(50, set, ladder, rates)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestEvaluateNoRatedBreak(t *testing.T) {
	set := types.RatingBreakSet{ID: "bs1", Method: types.MethodExtend}
	ladder := []types.RatingBreak{{ID: "b1", MinMetric: 0}}

	_, err := Evaluate(50, set, ladder, map[string]Rate{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestValidateStepSet(t *testing.T) {
	set := types.RatingBreakSet{ID: "bs1", Method: types.MethodStep}

	t.Run("disjoint ranges pass", func(t *testing.T) {
		ladder := []types.RatingBreak{
			{ID: "b1", MinMetric: 0, MaxMetric: fptr(500)},
			{ID: "b2", MinMetric: 500, MaxMetric: fptr(1000)},
			{ID: "b3", MinMetric: 1000},
		}
		assert.NoError(t, ValidateStepSet(set, ladder))
	})

	t.Run("overlapping ranges rejected", func(t *testing.T) {
		ladder := []types.RatingBreak{
			{ID: "b1", MinMetric: 0, MaxMetric: fptr(600)},
			{ID: "b2", MinMetric: 500, MaxMetric: fptr(1000)},
		}
		err := ValidateStepSet(set, ladder)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeInvalidArgument))
	})

	t.Run("open-ended break shadowing a later one rejected", func(t *testing.T) {
		ladder := []types.RatingBreak{
			{ID: "b1", MinMetric: 0},
			{ID: "b2", MinMetric: 500, MaxMetric: fptr(1000)},
		}
		assert.Error(t, ValidateStepSet(set, ladder))
	})

	t.Run("extend sets never validated for overlap", func(t *testing.T) {
		extendSet := types.RatingBreakSet{ID: "bs2", Method: types.MethodExtend}
		ladder := []types.RatingBreak{
			{ID: "b1", MinMetric: 0},
			{ID: "b2", MinMetric: 0},
		}
		assert.NoError(t, ValidateStepSet(extendSet, ladder))
	})
}
