package rating

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-rate/core/nmfc"
	"freight-rate/core/types"
	"freight-rate/db/memory"
	"freight-rate/internal/errors"
)

func fptr(f float64) *float64 { return &f }

// nmfcExplicitFixture builds a two-break explicit tariff rated for class
// "100" (10 PCF density shipments).
func nmfcExplicitFixture(t *testing.T) (*memory.Store, types.CarrierConfig) {
	t.Helper()
	store := memory.NewStore()
	carrier := store.AddCarrierConfig(types.CarrierConfig{
		ID:     "ltlco",
		Format: types.FormatNMFC,
	})

	bs := store.AddBreakSet(types.RatingBreakSet{
		ID: "cwt-ladder", Name: "CWT ladder",
		Metric: types.MetricWeight, Unit: "cwt", Method: types.MethodExtend,
	})
	b1 := store.AddBreak(types.RatingBreak{ID: "L5C", BreakSetID: bs.ID, MinMetric: 0, MaxMetric: fptr(5), Seq: 1})
	b2 := store.AddBreak(types.RatingBreak{ID: "M5C", BreakSetID: bs.ID, MinMetric: 5, Seq: 2})

	tariff := store.AddTariff(types.Tariff{
		ID: "t-explicit", PricingMode: types.PricingExplicit,
		BreakSetID: bs.ID, Method: types.MethodExtend,
		FuelSurchargePct: dec("20"),
	})
	store.AddRateMatrixEntry(types.RateMatrixEntry{
		TariffID: tariff.ID, BreakID: b1.ID, ClassCode: "100", RateValue: dec("50"), MinCharge: dec("90"),
	})
	store.AddRateMatrixEntry(types.RateMatrixEntry{
		TariffID: tariff.ID, BreakID: b2.ID, ClassCode: "100", RateValue: dec("40"),
	})

	carrier.TariffID = tariff.ID
	return store, carrier
}

func nmfcShipment() types.Shipment {
	return types.Shipment{
		CarrierID:      "ltlco",
		OriginPostal:   "M5V",
		DestPostal:     "V6B",
		TotalWeightLbs: 1000, // 10 CWT
		TotalCubeFt:    100,  // 10 PCF -> class 100
		ShipDate:       testDate,
	}
}

func TestNMFCExplicitLowestBreak(t *testing.T) {
	store, carrier := nmfcExplicitFixture(t)
	s := NewNMFCStrategy(store, nmfc.NewResolver(store))

	quote, err := s.Calculate(context.Background(), nmfcShipment(), carrier)
	require.NoError(t, err)
	// 10 CWT: break L5C charges 10*50=500, M5C charges 10*40=400; cheapest wins.
	assert.True(t, quote.Linehaul.Equal(dec("400")), "linehaul = %s", quote.Linehaul)
	assert.Equal(t, "100", quote.Routing.PriceClass)
	assert.True(t, quote.FuelPct.Equal(dec("20")))
}

func TestNMFCExplicitDeficitRating(t *testing.T) {
	store, carrier := nmfcExplicitFixture(t)
	s := NewNMFCStrategy(store, nmfc.NewResolver(store))

	shipment := nmfcShipment()
	shipment.TotalWeightLbs = 300 // 3 CWT
	shipment.TotalCubeFt = 30     // keep 10 PCF
	quote, err := s.Calculate(context.Background(), shipment, carrier)
	require.NoError(t, err)
	// L5C: 3*50=150, floored at 90 -> 150. M5C extends to 5 CWT: 5*40=200.
	assert.True(t, quote.Linehaul.Equal(dec("150")), "linehaul = %s", quote.Linehaul)
}

func TestNMFCExplicitFAKRemapsPriceClass(t *testing.T) {
	store, carrier := nmfcExplicitFixture(t)
	store.AddFAK(types.FAKMapping{FromClassCode: "100", ToClassCode: "70", TariffID: "t-explicit"})
	store.AddRateMatrixEntry(types.RateMatrixEntry{
		TariffID: "t-explicit", BreakID: "M5C", ClassCode: "70", RateValue: dec("30"),
	})
	s := NewNMFCStrategy(store, nmfc.NewResolver(store))

	quote, err := s.Calculate(context.Background(), nmfcShipment(), carrier)
	require.NoError(t, err)
	assert.Equal(t, "70", quote.Routing.PriceClass)
	assert.True(t, quote.Linehaul.Equal(dec("300")), "linehaul = %s", quote.Linehaul)
}

func TestNMFCDatedFAKAppliesWithoutShipDate(t *testing.T) {
	store, carrier := nmfcExplicitFixture(t)
	store.AddFAK(types.FAKMapping{
		FromClassCode: "100", ToClassCode: "70", TariffID: "t-explicit",
		EffectiveFrom: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		EffectiveTo:   time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	store.AddRateMatrixEntry(types.RateMatrixEntry{
		TariffID: "t-explicit", BreakID: "M5C", ClassCode: "70", RateValue: dec("30"),
	})
	s := NewNMFCStrategy(store, nmfc.NewResolver(store))

	shipment := nmfcShipment()
	shipment.ShipDate = time.Time{}
	quote, err := s.Calculate(context.Background(), shipment, carrier)
	require.NoError(t, err)
	assert.Equal(t, "70", quote.Routing.PriceClass)
}

func TestNMFCBaseDiscount(t *testing.T) {
	store := memory.NewStore()
	carrier := store.AddCarrierConfig(types.CarrierConfig{ID: "ltlco", Format: types.FormatNMFC})
	tariff := store.AddTariff(types.Tariff{
		ID: "t-disc", PricingMode: types.PricingBaseDiscount,
		BaseTariffID: "base-1", DiscountPct: dec("60"), AMC: dec("125"),
	})
	store.AddBaseRate(types.BaseRate{TariffID: "base-1", ClassCode: "100", RateCwt: dec("80")})
	carrier.TariffID = tariff.ID

	s := NewNMFCStrategy(store, nmfc.NewResolver(store))

	quote, err := s.Calculate(context.Background(), nmfcShipment(), carrier)
	require.NoError(t, err)
	// 80 * (1 - 0.60) = 32/cwt; 10 CWT * 32 = 320, above the 125 AMC.
	assert.True(t, quote.Linehaul.Equal(dec("320")), "linehaul = %s", quote.Linehaul)
}

func TestNMFCBaseDiscountAMCFloor(t *testing.T) {
	store := memory.NewStore()
	carrier := store.AddCarrierConfig(types.CarrierConfig{ID: "ltlco", Format: types.FormatNMFC})
	tariff := store.AddTariff(types.Tariff{
		ID: "t-disc", PricingMode: types.PricingBaseDiscount,
		BaseTariffID: "base-1", DiscountPct: dec("75"), AMC: dec("125"),
	})
	store.AddBaseRate(types.BaseRate{TariffID: "base-1", ClassCode: "100", RateCwt: dec("40")})
	carrier.TariffID = tariff.ID

	s := NewNMFCStrategy(store, nmfc.NewResolver(store))

	shipment := nmfcShipment()
	shipment.TotalWeightLbs = 500 // 5 CWT
	shipment.TotalCubeFt = 50
	quote, err := s.Calculate(context.Background(), shipment, carrier)
	require.NoError(t, err)
	// 40 * 0.25 = 10/cwt; 5 * 10 = 50, floored at the 125 AMC.
	assert.True(t, quote.Linehaul.Equal(dec("125")), "linehaul = %s", quote.Linehaul)
}

func TestNMFCBaseDiscountNoBaseRate(t *testing.T) {
	store := memory.NewStore()
	carrier := store.AddCarrierConfig(types.CarrierConfig{ID: "ltlco", Format: types.FormatNMFC})
	tariff := store.AddTariff(types.Tariff{
		ID: "t-disc", PricingMode: types.PricingBaseDiscount, BaseTariffID: "base-1",
	})
	carrier.TariffID = tariff.ID

	s := NewNMFCStrategy(store, nmfc.NewResolver(store))
	_, err := s.Calculate(context.Background(), nmfcShipment(), carrier)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestNMFCMissingTariffConfig(t *testing.T) {
	store := memory.NewStore()
	carrier := store.AddCarrierConfig(types.CarrierConfig{ID: "ltlco", Format: types.FormatNMFC})

	s := NewNMFCStrategy(store, nmfc.NewResolver(store))
	_, err := s.Calculate(context.Background(), nmfcShipment(), carrier)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestCWT(t *testing.T) {
	assert.Equal(t, int64(10), CWT(1000))
	assert.Equal(t, int64(10), CWT(999))
	assert.Equal(t, int64(1), CWT(1))
	assert.Equal(t, int64(11), CWT(1001))
}
