package redfish

import (
	"math"
	"time"

	"bmc-redfish/internal/observability/metrics"
	"bmc-redfish/internal/snapshot"
)

const epochSentinel = "1970-01-01T00:00:00Z"

// OverallHealth rolls sensor statuses up to one chassis health value. A
// single Critical anywhere outranks any number of Warnings; the scan
// covers every sensor, so ordering never affects the result.
func OverallHealth(sensors []snapshot.Sensor) string {
	warning := false
	for _, sensor := range sensors {
		switch sensor.Status {
		case snapshot.StatusCritical:
			return snapshot.StatusCritical
		case snapshot.StatusWarning:
			warning = true
		}
	}
	if warning {
		return snapshot.StatusWarning
	}
	return snapshot.StatusOK
}

// sensorHealth maps a per-sensor status to its Redfish health string. The
// mapping is the identity over the known statuses; anything else reads as
// OK.
func sensorHealth(status string) string {
	switch status {
	case snapshot.StatusOK, snapshot.StatusWarning, snapshot.StatusCritical:
		return status
	default:
		return snapshot.StatusOK
	}
}

// mapSeverity translates a log severity to Redfish. The table is total:
// unrecognized values map to OK, which is counted so a producer writing
// unexpected severities stays visible.
func (p *Projector) mapSeverity(severity string) string {
	switch severity {
	case "Info":
		return snapshot.StatusOK
	case "Warning":
		return snapshot.StatusWarning
	case "Critical":
		return snapshot.StatusCritical
	default:
		metrics.IncUnknownSeverity()
		if p.logger != nil {
			p.logger.Printf("redfish: unknown log severity %q mapped to OK", severity)
		}
		return snapshot.StatusOK
	}
}

// formatTimestamp renders a unix timestamp as UTC ISO-8601. Zero or
// absent timestamps render as the fixed epoch sentinel.
func formatTimestamp(ts int64) string {
	if ts <= 0 {
		return epochSentinel
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
