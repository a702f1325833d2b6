// Package metrics exposes hunt progress as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "domain_hunter"

// Metrics holds all Prometheus metrics of a hunt
type Metrics struct {
	Checked       prometheus.Gauge
	Found         prometheus.Gauge
	AvgPrice      prometheus.Gauge
	Running       prometheus.Gauge
	ResultsTotal  *prometheus.CounterVec
	ResultPrice   prometheus.Histogram
	ChecksTotal   *prometheus.CounterVec
	CheckDuration *prometheus.HistogramVec
	StoreErrors   prometheus.Counter
	HuntsTotal    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers every metric with reg; nil uses a fresh registry
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Checked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidates_checked",
			Help:      "Number of candidates checked in the current hunt",
		}),
		Found: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "domains_found",
			Help:      "Number of domains accepted in the current hunt",
		}),
		AvgPrice: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_price_dollars",
			Help:      "Running average price of accepted domains",
		}),
		Running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hunt_running",
			Help:      "1 while a hunt is running",
		}),
		ResultsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Total number of accepted domains by extension",
		}, []string{"extension"}),
		ResultPrice: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "result_price_dollars",
			Help:      "Price distribution of accepted domains",
			Buckets:   []float64{10, 25, 50, 100},
		}),
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "checks_total",
			Help:      "Total number of availability method invocations by method and verdict",
		}, []string{"method", "verdict"}),
		CheckDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "check_duration_seconds",
			Help:      "Duration of availability method invocations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "append_errors_total",
			Help:      "Total number of failed result store appends",
		}),
		HuntsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hunts_total",
			Help:      "Total number of finished hunts by final state",
		}, []string{"state"}),
		gatherer: reg,
	}
}

// OnProgress mirrors the session counters
func (m *Metrics) OnProgress(p entity.Progress) {
	m.Checked.Set(float64(p.Checked))
	m.Found.Set(float64(p.Found))
	m.AvgPrice.Set(p.AvgPrice)
	if p.State == entity.StateRunning {
		m.Running.Set(1)
	} else {
		m.Running.Set(0)
	}
}

// OnResult counts an accepted domain
func (m *Metrics) OnResult(r entity.DomainResult) {
	m.ResultsTotal.WithLabelValues(entity.ExtensionKey(r.Extension)).Inc()
	m.ResultPrice.Observe(r.Price)
}

// OnFinish counts a finished hunt
func (m *Metrics) OnFinish(s entity.Summary) {
	m.Running.Set(0)
	m.HuntsTotal.WithLabelValues(s.State.String()).Inc()
}

// OnStoreError counts a failed append
func (m *Metrics) OnStoreError(err error) {
	m.StoreErrors.Inc()
}

// ObserveCheck records a single availability method invocation
func (m *Metrics) ObserveCheck(record entity.CheckRecord) {
	m.ChecksTotal.WithLabelValues(record.Method, record.Verdict).Inc()
	m.CheckDuration.WithLabelValues(record.Method).Observe(float64(record.RTTMs) / 1000)
}

// Handler serves the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
