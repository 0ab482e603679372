package snapshot

import "encoding/json"

// SensorType discriminates sensor records. The set is closed; a record
// carrying anything else is schema drift, not a new sensor kind.
type SensorType string

const (
	SensorTemperature SensorType = "Temperature"
	SensorFan         SensorType = "Fan"
	SensorVoltage     SensorType = "Voltage"
)

// Sensor statuses as written by the producer.
const (
	StatusOK       = "OK"
	StatusWarning  = "Warning"
	StatusCritical = "Critical"
)

// Sensor is one reading from the device-state document. Thresholds are
// optional; a nil threshold means the producer did not publish one, which
// is distinct from a zero threshold.
type Sensor struct {
	Name        string     `json:"name"`
	Type        SensorType `json:"type"`
	Value       float64    `json:"value"`
	Status      string     `json:"status"`
	MinValid    *float64   `json:"min_valid,omitempty"`
	MaxWarning  *float64   `json:"max_warning,omitempty"`
	MaxCritical *float64   `json:"max_critical,omitempty"`
	LastUpdated int64      `json:"last_updated,omitempty"`
}

// PID is the fan controller state published by the producer. The producer
// may export additional internal fields (integral, previous error); they
// are ignored here.
type PID struct {
	Kp       float64 `json:"kp"`
	Ki       float64 `json:"ki"`
	Kd       float64 `json:"kd"`
	Setpoint float64 `json:"setpoint"`
	Output   float64 `json:"output"`
}

// Thermal is the fan-control sub-object of the device state.
type Thermal struct {
	FanDutyPercent float64 `json:"fan_duty_percent"`
	PID            PID     `json:"pid"`
}

// SecureBoot is the verification result sub-object. Image records are
// opaque to this service and are passed through verbatim.
type SecureBoot struct {
	OverallPassed bool              `json:"overall_passed"`
	Images        []json.RawMessage `json:"images"`
}

// DeviceState is the producer-written device snapshot.
type DeviceState struct {
	Sensors    []Sensor   `json:"sensors"`
	Thermal    Thermal    `json:"thermal"`
	SecureBoot SecureBoot `json:"secure_boot"`
}

// LogEntry is one system event log record. The id is unique and monotonic
// and serves as the entry's resource identity.
type LogEntry struct {
	ID        int64  `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Severity  string `json:"severity"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

// EventLog is the producer-written event log snapshot.
type EventLog struct {
	Entries []LogEntry `json:"entries"`
	Count   int        `json:"count"`
}

// DefaultDeviceState is the shape served when the device-state source is
// missing or unreadable: nothing known, secure boot not passed.
func DefaultDeviceState() DeviceState {
	return DeviceState{
		Sensors: []Sensor{},
		SecureBoot: SecureBoot{
			OverallPassed: false,
			Images:        []json.RawMessage{},
		},
	}
}

// DefaultEventLog is the shape served when the event-log source is missing
// or unreadable.
func DefaultEventLog() EventLog {
	return EventLog{Entries: []LogEntry{}, Count: 0}
}
