package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the batch pipeline.
type Metrics struct {
	RecordsLoaded      *prometheus.CounterVec // labels: source
	LoaderErrors       *prometheus.CounterVec // labels: source
	RecordsConverted   prometheus.Counter
	ConversionFailures prometheus.Counter

	PanelRows      prometheus.Gauge
	PanelCoverage  prometheus.Gauge // fraction of county-years observed
	BackfilledRows prometheus.Gauge

	FitR2   prometheus.Gauge
	FitRMSE prometheus.Gauge

	StageDuration *prometheus.HistogramVec // labels: stage
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.LoaderErrors,
		m.RecordsConverted,
		m.ConversionFailures,
		m.PanelRows,
		m.PanelCoverage,
		m.BackfilledRows,
		m.FitR2,
		m.FitRMSE,
		m.StageDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forest_rents",
			Name:      "records_loaded_total",
			Help:      "Stumpage price records loaded, by source state.",
		}, []string{"source"}),
		LoaderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forest_rents",
			Name:      "loader_errors_total",
			Help:      "Source loader failures, by source state.",
		}, []string{"source"}),
		RecordsConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forest_rents",
			Name:      "records_converted_total",
			Help:      "Records successfully standardized to $/ton.",
		}),
		ConversionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forest_rents",
			Name:      "conversion_failures_total",
			Help:      "Records whose unit could not be converted to $/ton.",
		}),
		PanelRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forest_rents",
			Name:      "panel_rows",
			Help:      "County-year rows in the assembled panel.",
		}),
		PanelCoverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forest_rents",
			Name:      "panel_coverage_ratio",
			Help:      "Observed county-years divided by expected county-years.",
		}),
		BackfilledRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forest_rents",
			Name:      "backfilled_rows",
			Help:      "County-year rows filled with model predictions.",
		}),
		FitR2: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forest_rents",
			Name:      "fit_r_squared",
			Help:      "R-squared of the most recent Ricardian fit.",
		}),
		FitRMSE: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forest_rents",
			Name:      "fit_rmse",
			Help:      "Root mean squared error of the most recent Ricardian fit.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forest_rents",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each batch stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"}),
	}
}
