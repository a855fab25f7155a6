package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
)

func TestLoggingRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	r := chi.NewRouter()
	r.Use(RequestID(logg), Logging(logg, httpMetrics))
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/products/123", nil))

	require.Equal(t, http.StatusNotFound, resp.Code)
	require.NotEmpty(t, resp.Header().Get("X-Request-Id"))
	require.Contains(t, buf.String(), "request.complete")
	require.Contains(t, buf.String(), `"status":404`)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "sellercenter_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/api/products/{id}" && labels["status"] == "404" {
				found = true
				require.Equal(t, float64(1), m.GetCounter().GetValue())
			}
		}
	}
	require.True(t, found, "expected request counter for route pattern")
}

func TestRecovererReturnsInternalEnvelope(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Contains(t, resp.Body.String(), `"code":"INTERNAL_ERROR"`)
	require.NotContains(t, resp.Body.String(), "boom")
}
