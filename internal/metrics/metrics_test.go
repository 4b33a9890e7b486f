package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun(RunStats{Shipments: 10, Invoice: 8, Merged: 11, Filtered: 3, Unmatched: 2, Duration: 5 * time.Millisecond})
	m.ObserveRun(RunStats{Shipments: 1, Invoice: 1, Merged: 1, Filtered: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.unmatched))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestObserveFailure(t *testing.T) {
	m := New()

	m.ObserveFailure(OutcomeColumnNotFound)
	m.ObserveFailure(OutcomeColumnNotFound)
	m.ObserveFailure(OutcomeMissingUpload)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeColumnNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeMissingUpload)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeOK)))
}

func TestExportsAndWorkspaces(t *testing.T) {
	m := New()

	m.ObserveExport("csv")
	m.ObserveExport("xlsx")
	m.ObserveExport("csv")
	n := 3
	m.TrackWorkspaces(func() int { return n })

	assert.Equal(t, 2.0, testutil.ToFloat64(m.exports.WithLabelValues("csv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("xlsx")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.workspaces))
	n = 5
	assert.Equal(t, 5.0, testutil.ToFloat64(m.workspaces), "sampled on every collect")
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveExport("csv")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `shipmerge_exports_total{format="csv"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveExport("csv")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.exports.WithLabelValues("csv")))
	assert.NotSame(t, a.Registry(), b.Registry())
}
