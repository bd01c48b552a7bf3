package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	passDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hdss_monitor",
		Subsystem: "pipeline",
		Name:      "pass_duration_seconds",
		Help:      "Wall time of one computation pass, load through assembly.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"site"})

	viewDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hdss_monitor",
		Subsystem: "pipeline",
		Name:      "view_duration_seconds",
		Help:      "Time spent computing one view.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"view"})

	viewFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hdss_monitor",
		Subsystem: "pipeline",
		Name:      "view_failures_total",
		Help:      "Number of views skipped because they failed.",
	}, []string{"view"})

	loadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hdss_monitor",
		Subsystem: "pipeline",
		Name:      "load_failures_total",
		Help:      "Number of passes aborted because the snapshot could not be loaded.",
	})

	snapshotRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hdss_monitor",
		Subsystem: "pipeline",
		Name:      "snapshot_records",
		Help:      "Records in the most recently loaded snapshot.",
	}, []string{"table"})

	lastPassGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hdss_monitor",
		Subsystem: "pipeline",
		Name:      "last_pass_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed pass.",
	})
)

func init() {
	prometheus.MustRegister(passDuration, viewDuration, viewFailures, loadFailures, snapshotRecords, lastPassGauge)
}

// UnknownSite is the pass label for sites outside the configured list.
const UnknownSite = "unknown"

// SiteLabel returns the configured spelling of site, or UnknownSite, so the
// site label only takes values from sites.
func SiteLabel(site string, sites []string) string {
	for _, known := range sites {
		if strings.EqualFold(known, site) {
			return known
		}
	}
	return UnknownSite
}

// RecordPass observes a completed pass for site. Callers pass a SiteLabel.
func RecordPass(site string, took time.Duration, at time.Time) {
	passDuration.WithLabelValues(site).Observe(took.Seconds())
	if !at.IsZero() {
		lastPassGauge.Set(float64(at.Unix()))
	}
}

func RecordView(view string, took time.Duration, failed bool) {
	viewDuration.WithLabelValues(view).Observe(took.Seconds())
	if failed {
		viewFailures.WithLabelValues(view).Inc()
	}
}

func RecordLoadFailure() {
	loadFailures.Inc()
}

// RecordSnapshot sets the record gauges from a freshly loaded snapshot.
func RecordSnapshot(households, individuals int) {
	snapshotRecords.WithLabelValues("households").Set(float64(households))
	snapshotRecords.WithLabelValues("individuals").Set(float64(individuals))
}
