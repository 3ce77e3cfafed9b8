package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shelepuginivan/traycontrols"
)

const (
	metricsNamespace = "traydemo"
	webserverTimeout = 10 * time.Second
)

// newMetricsHandler returns router that serves metrics of manager at
// /metrics.
func newMetricsHandler(manager *traycontrols.Manager[string]) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		traycontrols.NewCollector(manager, metricsNamespace),
		collectors.NewGoCollector(),
	)

	router := httprouter.New()
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.GET("/", index)

	return router
}

func index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "traydemo metrics are served at /metrics\n")
}

// serveMetrics serves metrics on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       webserverTimeout,
		ReadHeaderTimeout: webserverTimeout,
		WriteTimeout:      webserverTimeout,
		IdleTimeout:       webserverTimeout,
		ErrorLog:          zap.NewStdLog(log),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), webserverTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("failed to shut down metrics server", zap.Error(err))
		}
	}()

	log.Info("serving metrics", zap.String("addr", addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}

	return nil
}
