package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-rate/core/cache"
	"freight-rate/core/nmfc"
	"freight-rate/core/rating"
	"freight-rate/core/types"
	"freight-rate/core/zone"
	"freight-rate/db/memory"
)

var testDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.NewStore()

	carrier := store.AddCarrierConfig(types.CarrierConfig{
		ID:               "fastfreight",
		Name:             "Fast Freight",
		Format:           types.FormatTerminalWeightBased,
		FuelSurchargePct: dec("10"),
		Currency:         types.CurrencyCAD,
	})
	origin := store.AddTerminal(types.Terminal{CarrierID: carrier.ID, City: "Toronto", Province: "ON"})
	dest := store.AddTerminal(types.Terminal{CarrierID: carrier.ID, City: "Vancouver", Province: "BC"})
	store.AddTerminalRate(types.TerminalRate{
		CarrierID: carrier.ID, OriginTerminalID: origin.ID, DestTerminalID: dest.ID,
		MinWeightLbs: 0, MaxWeightLbs: 5000,
		RateType: types.RatePer100Lbs, Rate: dec("45"), MinCharge: dec("95"),
	})

	store.AddZoneSet(types.ZoneSet{ID: "zs1", Geography: "CA-domestic", Version: 1})
	store.AddBinding(types.CarrierZoneBinding{CarrierID: carrier.ID, ZoneSetID: "zs1", Priority: 1, Enabled: true})
	store.AddZoneMapping(types.ZoneMapping{ZoneSetID: "zs1", OriginRegionID: "M5V", DestRegionID: "V6B", ZoneCode: "Z3"})

	zones := cache.New("zones", 100, time.Minute)
	engine := rating.NewEngine(rating.EngineParams{
		Store:        store,
		Registry:     rating.DefaultRegistry(store, nmfc.NewResolver(store), 0),
		Zones:        zone.NewResolver(store, zones),
		RateCache:    cache.New("rates", 100, time.Minute),
		CarrierCache: cache.New("carrier_configs", 100, time.Minute),
	})
	return NewServer(engine, "test")
}

func postJSON(t *testing.T, srv *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestRateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/rate", types.Shipment{
		CarrierID:      "fastfreight",
		OriginPostal:   "M5V 1J1",
		DestPostal:     "V6B 3K9",
		OriginCity:     "Toronto",
		OriginProvince: "ON",
		DestCity:       "Vancouver",
		DestProvince:   "BC",
		TotalWeightLbs: 500,
		ShipDate:       testDate,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.RateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "fastfreight", result.CarrierID)
	// 225 linehaul + 10% fuel
	assert.True(t, result.FinalTotal.Equal(dec("247.5")), "final = %s", result.FinalTotal)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateEndpointErrors(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name     string
		shipment types.Shipment
		status   int
		errType  string
	}{
		{
			name: "missing carrier",
			shipment: types.Shipment{
				OriginPostal: "M5V", DestPostal: "V6B", TotalWeightLbs: 100, ShipDate: testDate,
			},
			status:  http.StatusBadRequest,
			errType: "INVALID_ARGUMENT",
		},
		{
			name: "unknown carrier",
			shipment: types.Shipment{
				CarrierID: "ghost", OriginPostal: "M5V", DestPostal: "V6B",
				TotalWeightLbs: 100, ShipDate: testDate,
			},
			status:  http.StatusNotFound,
			errType: "NOT_FOUND",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, srv, "/rate", tc.shipment)
			assert.Equal(t, tc.status, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.errType, body.Error.Type)
		})
	}
}

func TestRateEndpointUnimplemented(t *testing.T) {
	store := memory.NewStore()
	store.AddCarrierConfig(types.CarrierConfig{ID: "zm", Format: types.FormatZoneMatrix})
	engine := rating.NewEngine(rating.EngineParams{
		Store:        store,
		Registry:     rating.DefaultRegistry(store, nmfc.NewResolver(store), 0),
		Zones:        zone.NewResolver(store, cache.New("zones", 10, time.Minute)),
		RateCache:    cache.New("rates", 10, time.Minute),
		CarrierCache: cache.New("carrier_configs", 10, time.Minute),
	})
	srv := NewServer(engine, "test")

	rec := postJSON(t, srv, "/rate", types.Shipment{
		CarrierID: "zm", OriginPostal: "M5V", DestPostal: "V6B",
		TotalWeightLbs: 100, ShipDate: testDate,
	})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRateEndpointBadJSON(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/rate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestZoneEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/zone", ZoneRequest{
		CarrierID:    "fastfreight",
		OriginPostal: "M5V 1J1",
		DestPostal:   "V6B 3K9",
		ShipDate:     testDate,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.ZoneResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Z3", result.ZoneCode)
	assert.Equal(t, types.ZoneSourceBaseZoneSet, result.Source)
}

func TestPrewarmEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/cache/prewarm", PrewarmRequest{
		Lanes: []zone.Lane{
			{CarrierID: "fastfreight", OriginPostal: "M5V", DestPostal: "V6B", ShipDate: testDate},
			{CarrierID: "fastfreight", OriginPostal: "H2X", DestPostal: "V6B", ShipDate: testDate},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PrewarmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Warmed)
	assert.Len(t, resp.Errors, 1)
}

func TestCacheStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats []cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	names := make([]string, 0, len(stats))
	for _, s := range stats {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"zones", "rates", "carrier_configs"}, names)
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, srv, "/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test")
}
