package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWith(reg, reg)

	m.Submission("room@2", "create", "success")
	m.Submission("room@2", "create", "success")
	m.Submission("room@2", "create", "error")
	m.Ranking("matched")
	m.CorpusSize(3)
	m.EnrichmentFailed()
	m.TextServiceCall("ranking", time.Now(), nil)
	m.TextServiceCall("ranking", time.Now(), errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("room@2", "create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("room@2", "create", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rankings.WithLabelValues("matched")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.corpusSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.enrichFailed))
	assert.Equal(t, 2, testutil.CollectAndCount(m.textService))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Submission("s", "create", "success")
	m.Ranking("matched")
	m.CorpusSize(1)
	m.EnrichmentFailed()
	m.TextServiceCall("ranking", time.Now(), nil)
	assert.NotNil(t, m.Handler())
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.Ranking("empty_corpus")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `roomfinder_ranking_requests_total{outcome="empty_corpus"} 1`))
}
