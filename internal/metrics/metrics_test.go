package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (int, string) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestEndpoint_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	srv := httptest.NewServer(Endpoint{Gatherer: reg}.Handler())
	defer srv.Close()

	code, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	_, body = get(t, srv.URL+"/metrics")
	assert.Contains(t, body, "test_total 1")
}

func TestEndpoint_NotReady(t *testing.T) {
	ep := Endpoint{Ready: func() error { return errors.New("abi not loaded") }}
	srv := httptest.NewServer(ep.Handler())
	defer srv.Close()

	code, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "abi not loaded")
}

func TestDefaultGathererHasPlannerMetrics(t *testing.T) {
	Plans.WithLabelValues("ok").Add(0)
	srv := httptest.NewServer(Endpoint{}.Handler())
	defer srv.Close()

	_, body := get(t, srv.URL+"/metrics")
	assert.Contains(t, body, "planner_plans_total")
}
