package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scanctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"runtime", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scanctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"runtime", "method", "path", "status"},
	)
	scanCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scanctl",
			Subsystem: "scan",
			Name:      "cycles_total",
			Help:      "Completed scan cycles.",
		},
		[]string{"program"},
	)
	scanCycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scanctl",
			Subsystem: "scan",
			Name:      "cycle_duration_seconds",
			Help:      "Scan cycle body duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"program"},
	)
	scanOverruns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scanctl",
			Subsystem: "scan",
			Name:      "cycle_overruns_total",
			Help:      "Scan cycles whose body outlasted the armed period.",
		},
		[]string{"program"},
	)
	probePublishes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scanctl",
			Subsystem: "probe",
			Name:      "publishes_total",
			Help:      "Ticks published to the probe rendezvous.",
		},
	)
	probeSnapshots = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scanctl",
			Subsystem: "probe",
			Name:      "snapshots_total",
			Help:      "Snapshots exported by the probe observer.",
		},
	)
	probeSnapshotErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scanctl",
			Subsystem: "probe",
			Name:      "snapshot_errors_total",
			Help:      "Snapshot source failures observed by the probe observer.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			scanCycles, scanCycleDuration, scanOverruns,
			probePublishes, probeSnapshots, probeSnapshotErrors,
		)
	})
}

func RecordHTTPRequest(runtime, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(runtime, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(runtime, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordScanCycle(program string, duration time.Duration, overrun bool) {
	RegisterMetrics()
	scanCycles.WithLabelValues(program).Inc()
	scanCycleDuration.WithLabelValues(program).Observe(duration.Seconds())
	if overrun {
		scanOverruns.WithLabelValues(program).Inc()
	}
}

func RecordProbePublish() {
	RegisterMetrics()
	probePublishes.Inc()
}

func RecordProbeSnapshot(success bool) {
	RegisterMetrics()
	probeSnapshots.Inc()
	if !success {
		probeSnapshotErrors.Inc()
	}
}
