// Package metrics defines and exposes physlab's Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SimSteps counts completed solver steps.
	SimSteps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "physlab_sim_steps_total",
			Help: "Total number of completed integration steps",
		},
	)

	// ClockLag is the current gap between clock time and sim time.
	ClockLag = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "physlab_clock_lag_seconds",
			Help: "Gap between clock time and simulation time",
		},
	)

	// ClockRetards counts times the clock was set back because the sim
	// fell behind.
	ClockRetards = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "physlab_clock_retards_total",
			Help: "Times the clock was retarded to let the simulation catch up",
		},
	)

	// EnergyDrift is the relative total-energy drift of the current run.
	EnergyDrift = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "physlab_energy_drift_ratio",
			Help: "Relative drift of total energy since the run started",
		},
	)

	// BroadcastEvents counts reactive events delivered, by subject.
	BroadcastEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "physlab_broadcast_events_total",
			Help: "Reactive events observed, by subject name",
		},
		[]string{"subject"},
	)
)

func init() {
	prometheus.MustRegister(
		SimSteps,
		ClockLag,
		ClockRetards,
		EnergyDrift,
		BroadcastEvents,
	)
}

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr in a background goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
