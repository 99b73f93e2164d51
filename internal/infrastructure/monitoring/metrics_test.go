package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("Collectors_ShouldBeIndependent", func(t *testing.T) {
		first := NewMetricsCollector(zap.NewNop())
		second := NewMetricsCollector(zap.NewNop())

		first.Query("pairing", "success", time.Millisecond)

		assert.Equal(t, 1.0, testutil.ToFloat64(first.queriesTotal.WithLabelValues("pairing", "success")))
		assert.Equal(t, 0.0, testutil.ToFloat64(second.queriesTotal.WithLabelValues("pairing", "success")))
	})

	t.Run("GraphSize_ShouldSetGauges", func(t *testing.T) {
		m := NewMetricsCollector(zap.NewNop())

		m.GraphSize(75, 163, 14)

		assert.Equal(t, 75.0, testutil.ToFloat64(m.graphNodes))
		assert.Equal(t, 163.0, testutil.ToFloat64(m.graphEdges))
		assert.Equal(t, 14.0, testutil.ToFloat64(m.graphComponents))
	})

	t.Run("HTTPMiddleware_ShouldRecordStatus", func(t *testing.T) {
		m := NewMetricsCollector(zap.NewNop())
		handler := m.HTTPMiddleware(func(*http.Request) string { return "/route" })(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/route?x=1", nil))

		assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/route", "418")))
	})

	t.Run("Handler_ShouldExposeMetrics", func(t *testing.T) {
		m := NewMetricsCollector(zap.NewNop())
		m.CacheOperation("get", "hit")

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "flavorgraph_cache_operations_total"))
	})
}

func TestTracingProvider(t *testing.T) {
	t.Run("Disabled_ShouldReturnNoop", func(t *testing.T) {
		tp, err := NewTracingProvider(context.Background(), TracingConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)

		ctx, span := tp.StartSpan(context.Background(), "query")
		RecordError(span, errors.New("boom"))
		span.End()

		assert.NotNil(t, ctx)
		assert.False(t, span.SpanContext().IsValid())
		assert.NoError(t, tp.Shutdown(context.Background()))
	})
}
