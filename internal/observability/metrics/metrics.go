package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "bmc_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	redfishRequests *prometheus.CounterVec
	redfishLatency  *prometheus.HistogramVec

	snapshotReads    *prometheus.CounterVec
	snapshotDegraded *prometheus.CounterVec

	unknownSeverity prometheus.Counter

	archiveRuns     *prometheus.CounterVec
	archivedEntries prometheus.Counter

	exportTotal *prometheus.CounterVec
)

// Init registers service metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		redfishRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "redfish_requests_total",
				Help: "Total Redfish requests by resource and result",
			},
			[]string{"resource", "result"},
		)
		redfishLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "redfish_request_latency_seconds",
				Help:    "Redfish request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		)

		snapshotReads = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_reads_total",
				Help: "Total snapshot source reads by source and result",
			},
			[]string{"source", "result"},
		)
		snapshotDegraded = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_degraded_total",
				Help: "Total reads served from the default snapshot by source",
			},
			[]string{"source"},
		)

		unknownSeverity = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "unknown_severity_total",
				Help: "Log entries whose severity was not recognized and mapped to OK",
			},
		)

		archiveRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sel_archive_runs_total",
				Help: "Total SEL archive passes by result",
			},
			[]string{"result"},
		)
		archivedEntries = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sel_archived_entries_total",
				Help: "Total SEL entries copied to the archive",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total SEL export operations by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			redfishRequests,
			redfishLatency,
			snapshotReads,
			snapshotDegraded,
			unknownSeverity,
			archiveRuns,
			archivedEntries,
			exportTotal,
		)
	})
}

// ObserveRedfishRequest records one Redfish request.
func ObserveRedfishRequest(resource, result string, duration time.Duration) {
	if resource == "" {
		resource = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if redfishRequests != nil {
		redfishRequests.WithLabelValues(resource, result).Inc()
	}
	if redfishLatency != nil {
		redfishLatency.WithLabelValues(resource).Observe(duration.Seconds())
	}
}

// IncSnapshotRead counts a snapshot source read.
func IncSnapshotRead(source, result string) {
	if result == "" {
		result = resultSuccess
	}
	if snapshotReads != nil {
		snapshotReads.WithLabelValues(source, result).Inc()
	}
}

// IncSnapshotDegraded counts a read served from the default snapshot.
func IncSnapshotDegraded(source string) {
	if snapshotDegraded != nil {
		snapshotDegraded.WithLabelValues(source).Inc()
	}
	IncSnapshotRead(source, "degraded")
}

// IncUnknownSeverity counts an unrecognized log severity.
func IncUnknownSeverity() {
	if unknownSeverity != nil {
		unknownSeverity.Inc()
	}
}

// ObserveArchiveRun records one SEL archive pass.
func ObserveArchiveRun(result string, entries int) {
	if result == "" {
		result = resultSuccess
	}
	if archiveRuns != nil {
		archiveRuns.WithLabelValues(result).Inc()
	}
	if archivedEntries != nil && entries > 0 {
		archivedEntries.Add(float64(entries))
	}
}

// IncExport counts one SEL export.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// Exported result constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
