// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	// noop meters must be usable before initialization
	lazy := LazyLoadCounter("noop_counter")
	lazy().Add(1)
	CounterVec("noop_vec", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
	Gauge("noop_gauge").Set(3)
	HistogramVec("noop_hist", []string{"a"}, nil).ObserveWithLabels(1, map[string]string{"a": "b"})

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("count1")
	count.Add(2)
	Counter("count1").Add(3)

	CounterVec("countvec1", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "a"})
	CounterVec("countvec1", []string{"kind"}).AddWithLabel(4, map[string]string{"kind": "b"})

	g := Gauge("gauge1")
	g.Set(10)
	g.Add(-3)

	HistogramVec("hist1", []string{"kind"}, BucketApplyMicros).ObserveWithLabels(30, map[string]string{"kind": "a"})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := map[string]*dto.MetricFamily{}
	for _, f := range families {
		found[f.GetName()] = f
	}

	require.Contains(t, found, "tally_metrics_count1")
	assert.Equal(t, float64(5), found["tally_metrics_count1"].GetMetric()[0].GetCounter().GetValue())

	require.Contains(t, found, "tally_metrics_countvec1")
	sum := 0.0
	for _, m := range found["tally_metrics_countvec1"].GetMetric() {
		sum += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(5), sum)

	require.Contains(t, found, "tally_metrics_gauge1")
	assert.Equal(t, float64(7), found["tally_metrics_gauge1"].GetMetric()[0].GetGauge().GetValue())

	require.Contains(t, found, "tally_metrics_hist1")
	assert.Equal(t, uint64(1), found["tally_metrics_hist1"].GetMetric()[0].GetHistogram().GetSampleCount())
}
