package nmfc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-rate/core/types"
)

type fakeFAKStore struct {
	mappings []types.FAKMapping
	calls    []string
	asOf     []time.Time
}

func (f *fakeFAKStore) FindFAK(_ context.Context, fromClass, tariffID, customerID string, asOf time.Time) (*types.FAKMapping, error) {
	f.calls = append(f.calls, tariffID+"|"+customerID)
	f.asOf = append(f.asOf, asOf)
	for i := range f.mappings {
		m := &f.mappings[i]
		if m.FromClassCode == fromClass && m.TariffID == tariffID && m.CustomerID == customerID {
			return m, nil
		}
	}
	return nil, nil
}

func TestClassForDensity(t *testing.T) {
	tests := []struct {
		pcf  float64
		want string
	}{
		{55, "50"},
		{50, "50"},
		{35, "55"},
		{22.5, "65"},
		{15, "70"},
		{13.5, "77.5"},
		{10, "100"}, // density in [9, 10.5)
		{9, "100"},
		{8.5, "110"},
		{0.5, "400"},
		{0.2, "500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassForDensity(tt.pcf), "pcf=%v", tt.pcf)
	}
}

func TestResolveDeclaredClassWins(t *testing.T) {
	r := NewResolver(&fakeFAKStore{})
	res, err := r.Resolve(context.Background(), types.Shipment{
		DeclaredClass:  "85",
		TotalWeightLbs: 1000,
		TotalCubeFt:    100,
	}, "t1")
	require.NoError(t, err)
	assert.Equal(t, "85", res.Actual)
	assert.Equal(t, "85", res.Price)
	assert.Equal(t, types.ClassSourceDeclared, res.Source)
}

func TestResolveDensityCalculated(t *testing.T) {
	r := NewResolver(&fakeFAKStore{})
	res, err := r.Resolve(context.Background(), types.Shipment{
		TotalWeightLbs: 1000,
		TotalCubeFt:    100,
	}, "t1")
	require.NoError(t, err)
	assert.Equal(t, "100", res.Actual, "1000 lbs / 100 ft3 = 10 PCF")
	assert.Equal(t, types.ClassSourceDensityCalculated, res.Source)
	assert.InDelta(t, 10.0, res.DensityPCF, 1e-9)
}

func TestResolveZeroCubeDefaults(t *testing.T) {
	r := NewResolver(&fakeFAKStore{})
	res, err := r.Resolve(context.Background(), types.Shipment{TotalWeightLbs: 500}, "t1")
	require.NoError(t, err)
	assert.Equal(t, DefaultClass, res.Actual)
	assert.Equal(t, types.ClassSourceDensityCalculated, res.Source)
}

func TestResolveFAKPrecedence(t *testing.T) {
	store := &fakeFAKStore{mappings: []types.FAKMapping{
		{FromClassCode: "100", ToClassCode: "70", TariffID: "", CustomerID: ""},
		{FromClassCode: "100", ToClassCode: "65", TariffID: "t1", CustomerID: ""},
		{FromClassCode: "100", ToClassCode: "60", TariffID: "t1", CustomerID: "cust1"},
	}}
	r := NewResolver(store)

	shipment := types.Shipment{
		CustomerID:     "cust1",
		TotalWeightLbs: 1000,
		TotalCubeFt:    100, // class 100
	}

	res, err := r.Resolve(context.Background(), shipment, "t1")
	require.NoError(t, err)
	assert.Equal(t, "100", res.Actual)
	assert.Equal(t, "60", res.Price, "customer-specific mapping must win")
	assert.Equal(t, types.ClassSourceFAKMapped, res.Source)

	// Without the customer mapping, tariff scope wins.
	store.mappings = store.mappings[:2]
	res, err = r.Resolve(context.Background(), shipment, "t1")
	require.NoError(t, err)
	assert.Equal(t, "65", res.Price)

	// Without tariff scope, the global mapping applies.
	store.mappings = store.mappings[:1]
	res, err = r.Resolve(context.Background(), shipment, "t1")
	require.NoError(t, err)
	assert.Equal(t, "70", res.Price)
}

// TestResolveUnsetShipDateDefaultsToNow covers callers that never set a
// ship date: effective-dated mappings must still be evaluated against a
// real instant, not the zero time.
func TestResolveUnsetShipDateDefaultsToNow(t *testing.T) {
	store := &fakeFAKStore{}
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), types.Shipment{
		TotalWeightLbs: 1000,
		TotalCubeFt:    100,
	}, "t1")
	require.NoError(t, err)
	require.NotEmpty(t, store.asOf)
	for _, ts := range store.asOf {
		assert.False(t, ts.IsZero(), "lookup received a zero as-of time")
	}
}

func TestResolveNoFAKKeepsActual(t *testing.T) {
	r := NewResolver(&fakeFAKStore{})
	res, err := r.Resolve(context.Background(), types.Shipment{
		TotalWeightLbs: 1000,
		TotalCubeFt:    100,
	}, "t1")
	require.NoError(t, err)
	assert.Equal(t, res.Actual, res.Price)
	assert.Equal(t, types.ClassSourceDensityCalculated, res.Source)
}
