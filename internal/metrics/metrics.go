package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"crowdwatch-monitor/internal/models"
)

// Metrics holds the Prometheus collectors for the refresh pipeline.
type Metrics struct {
	CycleDuration   prometheus.Histogram
	CycleFailures   prometheus.Counter
	CyclesSkipped   prometheus.Counter
	ReadingsMerged  prometheus.Gauge
	AlertsTriggered prometheus.Counter
	SnapshotTotal   prometheus.Gauge
	LocationCount   *prometheus.GaugeVec
}

// New registers the pipeline collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crowdwatch",
			Name:      "refresh_cycle_duration_seconds",
			Help:      "Duration of one ingestion+classification refresh cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		CycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crowdwatch",
			Name:      "refresh_cycle_failures_total",
			Help:      "Refresh cycles that failed and kept the previous snapshot.",
		}),
		CyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crowdwatch",
			Name:      "refresh_cycles_skipped_total",
			Help:      "Timer fires coalesced because a cycle was still in flight.",
		}),
		ReadingsMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crowdwatch",
			Name:      "readings_merged",
			Help:      "Readings in the merged sequence of the last successful cycle.",
		}),
		AlertsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crowdwatch",
			Name:      "alerts_triggered_total",
			Help:      "Critical threshold crossings that marked a reading.",
		}),
		SnapshotTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crowdwatch",
			Name:      "snapshot_total_occupancy",
			Help:      "Sum of current counts across all locations.",
		}),
		LocationCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "crowdwatch",
			Name:      "location_occupancy",
			Help:      "Current people count per location.",
		}, []string{"location"}),
	}

	reg.MustRegister(m.CycleDuration, m.CycleFailures, m.CyclesSkipped,
		m.ReadingsMerged, m.AlertsTriggered, m.SnapshotTotal, m.LocationCount)
	return m
}

// ObserveSnapshot updates the occupancy gauges from a published snapshot.
func (m *Metrics) ObserveSnapshot(snap *models.Snapshot) {
	m.SnapshotTotal.Set(float64(snap.Total))
	for loc, ls := range snap.Locations {
		m.LocationCount.WithLabelValues(string(loc)).Set(float64(ls.CurrentCount))
	}
}
