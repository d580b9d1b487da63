// Package metrics holds the planner's Prometheus collectors and the HTTP
// endpoint that exposes them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Endpoint describes the metrics listener. Gatherer nil means the default
// registry; Ready nil means always healthy.
type Endpoint struct {
	Addr     string
	Gatherer prometheus.Gatherer
	Ready    func() error
}

// Handler serves /healthz and /metrics.
func (e Endpoint) Handler() http.Handler {
	g := e.Gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if e.Ready != nil {
			if err := e.Ready(); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))
	return mux
}

// Serve listens in the background until ctx is done. It is a no-op for an
// empty Addr.
func (e Endpoint) Serve(ctx context.Context, log *zap.Logger) {
	if e.Addr == "" {
		log.Debug("metrics endpoint off")
		return
	}
	srv := &http.Server{
		Addr:              e.Addr,
		Handler:           e.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	go func() {
		log.Info("metrics listening", zap.String("addr", e.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics listener", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
}
