package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-rate/core/types"
	"freight-rate/db/memory"
	"freight-rate/internal/errors"
)

func skidFixture(t *testing.T) (*memory.Store, types.CarrierConfig) {
	t.Helper()
	store := memory.NewStore()
	carrier := store.AddCarrierConfig(types.CarrierConfig{
		ID:               "palletpro",
		Format:           types.FormatSkidBased,
		FuelSurchargePct: dec("15"),
	})
	store.AddSkidRate(types.SkidRate{CarrierID: carrier.ID, SkidCount: 1, Rate: dec("120")})
	store.AddSkidRate(types.SkidRate{CarrierID: carrier.ID, SkidCount: 5, Rate: dec("480")})
	store.AddSkidRate(types.SkidRate{CarrierID: carrier.ID, SkidCount: 10, Rate: dec("850")})
	return store, carrier
}

func skidShipment(footprintSqIn float64) types.Shipment {
	return types.Shipment{
		CarrierID:      "palletpro",
		OriginPostal:   "L4W",
		DestPostal:     "H3B",
		TotalWeightLbs: 1000,
		FootprintSqIn:  footprintSqIn,
		ShipDate:       testDate,
	}
}

func TestSkidEquivalents(t *testing.T) {
	s := NewSkidStrategy(memory.NewStore(), 0)
	assert.Equal(t, 1, s.SkidEquivalents(48*48))
	assert.Equal(t, 2, s.SkidEquivalents(48*48+1))
	assert.Equal(t, 3, s.SkidEquivalents(3*48*48))
	assert.Equal(t, 0, s.SkidEquivalents(0))
}

func TestSkidExactMatch(t *testing.T) {
	store, carrier := skidFixture(t)
	s := NewSkidStrategy(store, 0)

	quote, err := s.Calculate(context.Background(), skidShipment(5*48*48), carrier)
	require.NoError(t, err)
	assert.True(t, quote.Linehaul.Equal(dec("480")), "linehaul = %s", quote.Linehaul)
}

func TestSkidNextHigherFallback(t *testing.T) {
	store, carrier := skidFixture(t)
	s := NewSkidStrategy(store, 0)

	// 3 skids: no exact row, next higher is the 5-skid row, not 1.
	quote, err := s.Calculate(context.Background(), skidShipment(3*48*48), carrier)
	require.NoError(t, err)
	assert.True(t, quote.Linehaul.Equal(dec("480")), "linehaul = %s", quote.Linehaul)
}

func TestSkidLargestFallback(t *testing.T) {
	store, carrier := skidFixture(t)
	s := NewSkidStrategy(store, 0)

	// 14 skids exceeds every row: the largest row applies.
	quote, err := s.Calculate(context.Background(), skidShipment(14*48*48), carrier)
	require.NoError(t, err)
	assert.True(t, quote.Linehaul.Equal(dec("850")), "linehaul = %s", quote.Linehaul)
}

func TestSkidNoRates(t *testing.T) {
	store := memory.NewStore()
	carrier := store.AddCarrierConfig(types.CarrierConfig{ID: "empty", Format: types.FormatSkidBased})
	s := NewSkidStrategy(store, 0)

	shipment := skidShipment(48 * 48)
	shipment.CarrierID = "empty"
	_, err := s.Calculate(context.Background(), shipment, carrier)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestSkidRequiresFootprint(t *testing.T) {
	store, carrier := skidFixture(t)
	s := NewSkidStrategy(store, 0)

	_, err := s.Calculate(context.Background(), skidShipment(0), carrier)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInvalidArgument))
}
