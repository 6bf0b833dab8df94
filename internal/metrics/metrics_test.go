package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
)

func TestSinkCountsTrials(t *testing.T) {
	combination := domain.Combination{Mutation: "swap", Crossover: "cycle", Selection: "metrics_test"}
	success := trialsTotal.WithLabelValues("swap", "cycle", "metrics_test", "success")
	failure := trialsTotal.WithLabelValues("swap", "cycle", "metrics_test", "failure")
	beforeSuccess, beforeFailure := testutil.ToFloat64(success), testutil.ToFloat64(failure)
	beforeGenerations := testutil.ToFloat64(generationsTotal)

	sink := Sink{}
	require.NoError(t, sink.RecordTrial(context.Background(), &domain.TrialRecord{
		Combination: combination,
		Fitness:     []float64{1, 2, 3},
		Duration:    time.Second,
	}))
	require.NoError(t, sink.RecordTrial(context.Background(), &domain.TrialRecord{
		Combination: combination,
		Error:       "boom",
	}))

	assert.Equal(t, beforeSuccess+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
	assert.Equal(t, beforeGenerations+3, testutil.ToFloat64(generationsTotal))
}

func TestSinkRecordsSummary(t *testing.T) {
	sink := Sink{}
	summary := &domain.CombinationSummary{
		Combination:             domain.Combination{Mutation: "misfit", Crossover: "uniform", Selection: "metrics_test"},
		AvgFitnessPerGeneration: []float64{3, 4},
		LastGenerationAvg:       4,
	}
	require.NoError(t, sink.RecordSummary(context.Background(), summary))

	gauge := lastGenerationAvg.WithLabelValues("misfit", "uniform", "metrics_test")
	assert.Equal(t, 4.0, testutil.ToFloat64(gauge))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveSweep(domain.SweepStatusFinished)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "seating_sweeps_total"))
}
