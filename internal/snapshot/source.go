package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"bmc-redfish/internal/observability/metrics"
)

// ErrSchemaDrift indicates the source parsed but violates the producer
// contract (for example a sensor without a recognized type). Unlike a
// missing or corrupt source this must not be papered over with defaults.
var ErrSchemaDrift = errors.New("snapshot: schema drift")

// Source provides point-in-time reads of the externally produced state
// documents. Every call re-reads the backing source; implementations must
// not cache.
type Source interface {
	ReadDeviceState(ctx context.Context) (DeviceState, error)
	ReadEventLog(ctx context.Context) (EventLog, error)
}

// FileSource reads the device-state and event-log JSON documents written
// by the firmware daemon. A missing or unparsable file degrades to the
// default snapshot; the producer may rewrite either file at any moment,
// so a torn read surfaces as a parse failure and degrades the same way.
type FileSource struct {
	statePath string
	selPath   string
	logger    *log.Logger
}

// NewFileSource constructs a FileSource.
func NewFileSource(statePath, selPath string, logger *log.Logger) (*FileSource, error) {
	if statePath == "" {
		return nil, errors.New("snapshot: state path required")
	}
	if selPath == "" {
		return nil, errors.New("snapshot: sel path required")
	}
	return &FileSource{statePath: statePath, selPath: selPath, logger: logger}, nil
}

// ReadDeviceState loads the current device state. The returned error is
// non-nil only for schema drift; source unavailability yields the default
// state and a nil error.
func (s *FileSource) ReadDeviceState(_ context.Context) (DeviceState, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		s.degraded("device_state", err)
		return DefaultDeviceState(), nil
	}

	var state DeviceState
	if err := json.Unmarshal(data, &state); err != nil {
		s.degraded("device_state", err)
		return DefaultDeviceState(), nil
	}

	if err := validateDeviceState(state); err != nil {
		metrics.IncSnapshotRead("device_state", metrics.ResultError)
		return DeviceState{}, err
	}

	metrics.IncSnapshotRead("device_state", metrics.ResultSuccess)
	return normalizeDeviceState(state), nil
}

// ReadEventLog loads the current event log. Source unavailability yields
// the empty log and a nil error.
func (s *FileSource) ReadEventLog(_ context.Context) (EventLog, error) {
	data, err := os.ReadFile(s.selPath)
	if err != nil {
		s.degraded("event_log", err)
		return DefaultEventLog(), nil
	}

	var sel EventLog
	if err := json.Unmarshal(data, &sel); err != nil {
		s.degraded("event_log", err)
		return DefaultEventLog(), nil
	}

	metrics.IncSnapshotRead("event_log", metrics.ResultSuccess)
	if sel.Entries == nil {
		sel.Entries = []LogEntry{}
	}
	return sel, nil
}

func (s *FileSource) degraded(source string, err error) {
	metrics.IncSnapshotDegraded(source)
	if s.logger != nil && !os.IsNotExist(err) {
		s.logger.Printf("snapshot: %s unreadable, serving defaults: %v", source, err)
	}
}

// validateDeviceState enforces the producer contract once, at the snapshot
// boundary, so projections never have to re-check field presence.
func validateDeviceState(state DeviceState) error {
	for i, sensor := range state.Sensors {
		switch sensor.Type {
		case SensorTemperature, SensorFan, SensorVoltage:
		case "":
			return fmt.Errorf("%w: sensor %d (%q) has no type", ErrSchemaDrift, i, sensor.Name)
		default:
			return fmt.Errorf("%w: sensor %d (%q) has unknown type %q", ErrSchemaDrift, i, sensor.Name, sensor.Type)
		}
		if sensor.Name == "" {
			return fmt.Errorf("%w: sensor %d has no name", ErrSchemaDrift, i)
		}
	}
	return nil
}

func normalizeDeviceState(state DeviceState) DeviceState {
	if state.Sensors == nil {
		state.Sensors = []Sensor{}
	}
	if state.SecureBoot.Images == nil {
		state.SecureBoot.Images = []json.RawMessage{}
	}
	return state
}
