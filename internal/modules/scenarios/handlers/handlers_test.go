package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
	"github.com/irodotos/kpiboard/internal/modules/scenarios"
	"github.com/irodotos/kpiboard/internal/snapshot"
)

func setupTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	// Annual spend grid with diminishing returns so the marginal curve
	// crosses the default thresholds.
	snap := &snapshot.Snapshot{
		Annual: snapshot.ProjectionTable{
			{Spend: 1_000_000, Sales: 5_000_000, ROAS: 5.0, Traffic: 1_000_000, ScenarioLabel: "baseline"},
			{Spend: 2_000_000, Sales: 8_000_000, ROAS: 4.0, Traffic: 1_700_000, ScenarioLabel: "baseline"},
			{Spend: 3_000_000, Sales: 9_800_000, ROAS: 3.27, Traffic: 2_100_000, ScenarioLabel: "baseline"},
			{Spend: 4_000_000, Sales: 10_600_000, ROAS: 2.65, Traffic: 2_300_000, ScenarioLabel: "baseline"},
		},
		Baseline: snapshot.ProjectionTable{{Spend: 1, Sales: 1, ROAS: 1, ScenarioLabel: "baseline"}},
		Holiday:  snapshot.ProjectionTable{{Spend: 1, Sales: 1, ROAS: 1, ScenarioLabel: "holiday"}},
	}

	handler := NewHandler(snap, analysis.NewService(log), scenarios.NewService(log), log)
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func TestHandleMarginal_CurveAndThresholds(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/views/marginal", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Marginal   []analysis.MarginalPoint   `json:"marginal"`
		Thresholds []scenarios.ThresholdEntry `json:"thresholds"`
		Empty      bool                       `json:"empty"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.False(t, body.Empty)
	require.Len(t, body.Marginal, 4)
	assert.Nil(t, body.Marginal[0].MarginalROAS)
	require.NotNil(t, body.Marginal[1].MarginalROAS)
	assert.InDelta(t, 3.0, *body.Marginal[1].MarginalROAS, 1e-9)

	// Marginals are 3.0, 1.8, 0.8: thresholds 3.0/2.5/2.0 resolve at 3M
	// spend, 1.5/1.0 at 4M, 0.5 is never crossed.
	require.Len(t, body.Thresholds, 5)
	assert.Equal(t, 3.0, body.Thresholds[0].Threshold)
	assert.Equal(t, 3_000_000.0, body.Thresholds[0].Spend)
	assert.Equal(t, 1.0, body.Thresholds[4].Threshold)
	assert.Equal(t, 4_000_000.0, body.Thresholds[4].Spend)
}

func TestHandleMarginal_EmptyFilteredSet(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/views/marginal?min_roas=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Marginal   []analysis.MarginalPoint   `json:"marginal"`
		Thresholds []scenarios.ThresholdEntry `json:"thresholds"`
		Empty      bool                       `json:"empty"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Empty)
	assert.Empty(t, body.Marginal)
	assert.Empty(t, body.Thresholds)
}

func TestHandleComparison(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/views/comparison?spends=1000000,2990000,9000000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Scenarios []scenarios.ComparisonEntry `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Scenarios, 3)
	assert.True(t, body.Scenarios[0].Matched)
	assert.Equal(t, 1_000_000.0, body.Scenarios[0].Row.Spend)
	assert.True(t, body.Scenarios[1].Matched, "2.99M is within 1% of the 3M row")
	assert.Equal(t, 3_000_000.0, body.Scenarios[1].Row.Spend)
	assert.False(t, body.Scenarios[2].Matched)
	assert.Nil(t, body.Scenarios[2].Row)
}

func TestHandleComparison_BadRequests(t *testing.T) {
	router := setupTestRouter(t)

	cases := []string{
		"/api/views/comparison",                      // missing spends
		"/api/views/comparison?spends=abc",           // non-numeric
		"/api/views/comparison?spends=1&min_roas=no", // bad criteria
	}
	for _, url := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}
