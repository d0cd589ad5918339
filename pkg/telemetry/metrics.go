package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/chooser/pkg/selector"
)

const namespace = "chooser"

// Metrics holds the Prometheus collectors for selector and directory
// activity. It implements selector.Observer.
type Metrics struct {
	rankTotal      prometheus.Counter
	rankDuration   prometheus.Histogram
	visibleEntries prometheus.Histogram
	commits        *prometheus.CounterVec
	closes         *prometheus.CounterVec
	browses        *prometheus.CounterVec
	browseDuration prometheus.Histogram
}

// NewMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry(); the binary passes prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rankTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "rank_total",
			Help:      "Number of times the visible list was rebuilt.",
		}),
		rankDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "rank_duration_seconds",
			Help:      "Time spent filtering and ranking options.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		visibleEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "visible_entries",
			Help:      "Entries in the visible list after ranking.",
			Buckets:   prometheus.LinearBuckets(0, 5, 6),
		}),
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "commits_total",
			Help:      "Commits by kind.",
		}, []string{"kind"}),
		closes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "close_requests_total",
			Help:      "Close requests by reason.",
		}, []string{"reason"}),
		browses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "browse_total",
			Help:      "Directory listings by result.",
		}, []string{"result"}),
		browseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "browse_duration_seconds",
			Help:      "Time spent listing a directory.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) Ranked(visible int, elapsed time.Duration) {
	m.rankTotal.Inc()
	m.rankDuration.Observe(elapsed.Seconds())
	m.visibleEntries.Observe(float64(visible))
}

func (m *Metrics) Committed(kind selector.CommitKind) {
	m.commits.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) Closed(reason selector.CloseReason) {
	m.closes.WithLabelValues(string(reason)).Inc()
}

// Browsed records one directory listing.
func (m *Metrics) Browsed(err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.browses.WithLabelValues(result).Inc()
	m.browseDuration.Observe(elapsed.Seconds())
}

var _ selector.Observer = (*Metrics)(nil)
