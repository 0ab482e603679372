package redfish

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"bmc-redfish/internal/snapshot"
)

// Identity carries the static identification fields reported on chassis
// and manager resources.
type Identity struct {
	ServiceName     string
	ChassisName     string
	Manufacturer    string
	Model           string
	SerialNumber    string
	FirmwareVersion string
	UUID            string
	SELMaxRecords   int
}

// Projector builds Redfish resource documents from snapshots. Every
// projection is pure: the same snapshot always yields the same document.
type Projector struct {
	identity Identity
	logger   *log.Logger
}

// NewProjector constructs a Projector. The logger is optional and only
// used to surface unrecognized producer values.
func NewProjector(identity Identity, logger *log.Logger) *Projector {
	if identity.SELMaxRecords <= 0 {
		identity.SELMaxRecords = 256
	}
	return &Projector{identity: identity, logger: logger}
}

// ServiceRoot builds the fixed navigation entry document. It has no
// snapshot dependency.
func (p *Projector) ServiceRoot() ServiceRoot {
	return ServiceRoot{
		ODataID:        PathServiceRoot,
		ODataType:      "#ServiceRoot.v1_5_0.ServiceRoot",
		ID:             "RootService",
		Name:           p.identity.ServiceName,
		RedfishVersion: "1.8.0",
		UUID:           p.identity.UUID,
		Chassis:        Link{ODataID: PathChassisCollection},
		Managers:       Link{ODataID: PathManagerCollection},
	}
}

// ChassisCollection builds the single-member chassis collection.
func (p *Projector) ChassisCollection() Collection {
	members := []Link{{ODataID: PathChassis}}
	return Collection{
		ODataID:      PathChassisCollection,
		ODataType:    "#ChassisCollection.ChassisCollection",
		Name:         "Chassis Collection",
		Members:      members,
		MembersCount: len(members),
	}
}

// Chassis builds the chassis document with the overall health rollup.
func (p *Projector) Chassis(state snapshot.DeviceState) Chassis {
	return Chassis{
		ODataID:      PathChassis,
		ODataType:    "#Chassis.v1_14_0.Chassis",
		ID:           "1",
		Name:         p.identity.ChassisName,
		ChassisType:  "RackMount",
		Manufacturer: p.identity.Manufacturer,
		Model:        p.identity.Model,
		SerialNumber: p.identity.SerialNumber,
		Status: Status{
			State:  "Enabled",
			Health: OverallHealth(state.Sensors),
		},
		Thermal: Link{ODataID: PathThermal},
		Power:   Link{ODataID: PathPower},
		Links:   ChassisLinks{ManagedBy: []Link{{ODataID: PathManager}}},
	}
}

// Thermal builds the temperature and fan view. Member identity embeds the
// sensor's index in the full list, not a type-local index.
func (p *Projector) Thermal(state snapshot.DeviceState) Thermal {
	temperatures := []Temperature{}
	fans := []Fan{}

	for i, sensor := range state.Sensors {
		switch sensor.Type {
		case snapshot.SensorTemperature:
			temperatures = append(temperatures, Temperature{
				ODataID:                   fmt.Sprintf("%s#/Temperatures/%d", PathThermal, i),
				MemberID:                  strconv.Itoa(i),
				Name:                      sensor.Name,
				ReadingCelsius:            round1(sensor.Value),
				Status:                    Status{State: "Enabled", Health: sensorHealth(sensor.Status)},
				UpperThresholdNonCritical: sensor.MaxWarning,
				UpperThresholdCritical:    sensor.MaxCritical,
			})
		case snapshot.SensorFan:
			fans = append(fans, Fan{
				ODataID:      fmt.Sprintf("%s#/Fans/%d", PathThermal, i),
				MemberID:     strconv.Itoa(i),
				Name:         sensor.Name,
				Reading:      int(sensor.Value),
				ReadingUnits: "RPM",
				Status:       Status{State: "Enabled", Health: sensorHealth(sensor.Status)},
			})
		}
	}

	return Thermal{
		ODataID:      PathThermal,
		ODataType:    "#Thermal.v1_7_0.Thermal",
		ID:           "Thermal",
		Name:         "Thermal",
		Temperatures: temperatures,
		Fans:         fans,
		Oem: Oem{
			MicroBMC: OemFanControl{
				FanDutyPercent: round1(state.Thermal.FanDutyPercent),
				PID: OemPID{
					Kp:       state.Thermal.PID.Kp,
					Ki:       state.Thermal.PID.Ki,
					Kd:       state.Thermal.PID.Kd,
					Setpoint: state.Thermal.PID.Setpoint,
					Output:   round1(state.Thermal.PID.Output),
				},
			},
		},
	}
}

// Power builds the voltage view, symmetric to Thermal.
func (p *Projector) Power(state snapshot.DeviceState) Power {
	voltages := []Voltage{}
	for i, sensor := range state.Sensors {
		if sensor.Type != snapshot.SensorVoltage {
			continue
		}
		voltages = append(voltages, Voltage{
			ODataID:                   fmt.Sprintf("%s#/Voltages/%d", PathPower, i),
			MemberID:                  strconv.Itoa(i),
			Name:                      sensor.Name,
			ReadingVolts:              round3(sensor.Value),
			Status:                    Status{State: "Enabled", Health: sensorHealth(sensor.Status)},
			LowerThresholdNonCritical: sensor.MinValid,
			UpperThresholdNonCritical: sensor.MaxWarning,
			UpperThresholdCritical:    sensor.MaxCritical,
		})
	}

	return Power{
		ODataID:   PathPower,
		ODataType: "#Power.v1_7_0.Power",
		ID:        "Power",
		Name:      "Power",
		Voltages:  voltages,
	}
}

// Sensors builds the flat, unfiltered sensor collection.
func (p *Projector) Sensors(state snapshot.DeviceState) SensorCollection {
	members := []SensorMember{}
	for i, sensor := range state.Sensors {
		members = append(members, SensorMember{
			ODataID:     fmt.Sprintf("%s/%d", PathSensors, i),
			ID:          strconv.Itoa(i),
			Name:        sensor.Name,
			Type:        string(sensor.Type),
			Reading:     round2(sensor.Value),
			Status:      sensor.Status,
			LastUpdated: sensor.LastUpdated,
		})
	}
	return SensorCollection{
		ODataID:      PathSensors,
		Name:         "Sensor Collection",
		Members:      members,
		MembersCount: len(members),
	}
}

// ManagerCollection builds the single-member manager collection.
func (p *Projector) ManagerCollection() Collection {
	members := []Link{{ODataID: PathManager}}
	return Collection{
		ODataID:      PathManagerCollection,
		Name:         "Manager Collection",
		Members:      members,
		MembersCount: len(members),
	}
}

// Manager builds the management controller document.
func (p *Projector) Manager() Manager {
	return Manager{
		ODataID:         PathManager,
		ODataType:       "#Manager.v1_12_0.Manager",
		ID:              "1",
		Name:            p.identity.ServiceName + " Manager",
		ManagerType:     "BMC",
		FirmwareVersion: p.identity.FirmwareVersion,
		Status:          Status{State: "Enabled", Health: snapshot.StatusOK},
		LogServices:     Link{ODataID: PathLogServices},
		Actions: ManagerActions{
			SecureBootVerify: ActionTarget{Target: PathSecureBootVerify},
		},
	}
}

// LogServices builds the log service collection.
func (p *Projector) LogServices() Collection {
	members := []Link{{ODataID: PathSELService}}
	return Collection{
		ODataID:      PathLogServices,
		Name:         "Log Services Collection",
		Members:      members,
		MembersCount: len(members),
	}
}

// SELService builds the SEL log service descriptor.
func (p *Projector) SELService() LogService {
	return LogService{
		ODataID:            PathSELService,
		ODataType:          "#LogService.v1_2_0.LogService",
		ID:                 "SEL",
		Name:               "System Event Log",
		Entries:            Link{ODataID: PathSELEntries},
		OverWritePolicy:    "WrapsWhenFull",
		MaxNumberOfRecords: p.identity.SELMaxRecords,
		Status:             Status{State: "Enabled", Health: snapshot.StatusOK},
	}
}

// SELEntries projects every log entry. The collection count is the live
// member count, not the producer's count field.
func (p *Projector) SELEntries(sel snapshot.EventLog) LogEntryCollection {
	members := []LogEntryMember{}
	for _, entry := range sel.Entries {
		members = append(members, p.logEntryMember(entry))
	}
	return LogEntryCollection{
		ODataID:      PathSELEntries,
		Name:         "SEL Entries",
		Members:      members,
		MembersCount: len(members),
	}
}

// SELEntry projects a single log entry by raw id. The second return is
// false when no entry with that id exists.
func (p *Projector) SELEntry(sel snapshot.EventLog, id int64) (LogEntryMember, bool) {
	for _, entry := range sel.Entries {
		if entry.ID == id {
			return p.logEntryMember(entry), true
		}
	}
	return LogEntryMember{}, false
}

func (p *Projector) logEntryMember(entry snapshot.LogEntry) LogEntryMember {
	id := strconv.FormatInt(entry.ID, 10)
	return LogEntryMember{
		ODataID:     PathSELEntries + "/" + id,
		ID:          id,
		Severity:    p.mapSeverity(entry.Severity),
		Created:     formatTimestamp(entry.Timestamp),
		EntryType:   "SEL",
		Message:     entry.Message,
		MessageArgs: []string{entry.Source},
	}
}

// SecureBootVerify reports the last stored verification result verbatim.
// It does not trigger a new verification pass; the producer owns that.
func (p *Projector) SecureBootVerify(state snapshot.DeviceState) SecureBootResult {
	images := state.SecureBoot.Images
	if images == nil {
		images = []json.RawMessage{}
	}
	return SecureBootResult{
		OverallPassed: state.SecureBoot.OverallPassed,
		Images:        images,
		Message:       "Secure boot verification complete",
	}
}
