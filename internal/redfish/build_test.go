package redfish

import (
	"bytes"
	"encoding/json"
	"log"
	"reflect"
	"strings"
	"testing"

	"bmc-redfish/internal/snapshot"
)

func testProjector() *Projector {
	return NewProjector(Identity{
		ServiceName:     "Test BMC",
		ChassisName:     "Test Server",
		Manufacturer:    "TestCo",
		Model:           "T-1000",
		SerialNumber:    "T00001",
		FirmwareVersion: "1.0.0",
		UUID:            "00000000-0000-0000-0000-000000000001",
		SELMaxRecords:   256,
	}, nil)
}

func fptr(v float64) *float64 { return &v }

func tempSensor(name string, value float64, status string) snapshot.Sensor {
	return snapshot.Sensor{Name: name, Type: snapshot.SensorTemperature, Value: value, Status: status}
}

func fanSensor(name string, value float64, status string) snapshot.Sensor {
	return snapshot.Sensor{Name: name, Type: snapshot.SensorFan, Value: value, Status: status}
}

func voltSensor(name string, value float64, status string) snapshot.Sensor {
	return snapshot.Sensor{Name: name, Type: snapshot.SensorVoltage, Value: value, Status: status}
}

func TestServiceRootStaticLinks(t *testing.T) {
	root := testProjector().ServiceRoot()
	if root.ODataID != "/redfish/v1/" {
		t.Fatalf("expected service root identity, got %q", root.ODataID)
	}
	if root.Chassis.ODataID != "/redfish/v1/Chassis" {
		t.Fatalf("expected chassis link, got %q", root.Chassis.ODataID)
	}
	if root.Managers.ODataID != "/redfish/v1/Managers" {
		t.Fatalf("expected managers link, got %q", root.Managers.ODataID)
	}
	if root.RedfishVersion == "" {
		t.Fatal("expected redfish version")
	}
}

func TestOverallHealthRollup(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"empty", nil, "OK"},
		{"all ok", []string{"OK", "OK", "OK"}, "OK"},
		{"one warning", []string{"OK", "Warning", "OK"}, "Warning"},
		{"critical outranks warnings", []string{"Warning", "Warning", "Critical"}, "Critical"},
		{"critical first", []string{"Critical", "OK", "OK"}, "Critical"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sensors := make([]snapshot.Sensor, 0, len(tc.statuses))
			for _, status := range tc.statuses {
				sensors = append(sensors, tempSensor("s", 40, status))
			}
			if got := OverallHealth(sensors); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestOverallHealthOrderIndependence(t *testing.T) {
	statuses := []string{"OK", "Warning", "Critical"}
	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, perm := range permutations {
		sensors := make([]snapshot.Sensor, 0, len(perm))
		for _, idx := range perm {
			sensors = append(sensors, tempSensor("s", 40, statuses[idx]))
		}
		if got := OverallHealth(sensors); got != "Critical" {
			t.Fatalf("permutation %v: expected Critical, got %s", perm, got)
		}
	}
}

func TestThermalRounding(t *testing.T) {
	state := snapshot.DeviceState{Sensors: []snapshot.Sensor{
		tempSensor("CPU Temp", 45.678, "OK"),
		fanSensor("Fan1", 2599.9, "OK"),
	}}
	thermal := testProjector().Thermal(state)

	if len(thermal.Temperatures) != 1 || len(thermal.Fans) != 1 {
		t.Fatalf("expected 1 temperature and 1 fan, got %d/%d", len(thermal.Temperatures), len(thermal.Fans))
	}
	if got := thermal.Temperatures[0].ReadingCelsius; got != 45.7 {
		t.Fatalf("expected ReadingCelsius 45.7, got %v", got)
	}
	// Fan readings truncate, they do not round.
	if got := thermal.Fans[0].Reading; got != 2599 {
		t.Fatalf("expected fan reading 2599, got %d", got)
	}
	if thermal.Fans[0].ReadingUnits != "RPM" {
		t.Fatalf("expected RPM units, got %q", thermal.Fans[0].ReadingUnits)
	}
}

func TestThermalIdentityUsesFullListIndex(t *testing.T) {
	state := snapshot.DeviceState{Sensors: []snapshot.Sensor{
		tempSensor("CPU Temp", 45, "OK"),
		fanSensor("Fan1", 2600, "OK"),
		tempSensor("Inlet Temp", 30, "OK"),
	}}
	thermal := testProjector().Thermal(state)

	if thermal.Temperatures[0].MemberID != "0" || thermal.Temperatures[1].MemberID != "2" {
		t.Fatalf("expected temperature member ids 0 and 2, got %s and %s",
			thermal.Temperatures[0].MemberID, thermal.Temperatures[1].MemberID)
	}
	if thermal.Fans[0].MemberID != "1" {
		t.Fatalf("expected fan member id 1, got %s", thermal.Fans[0].MemberID)
	}
	if !strings.HasSuffix(thermal.Temperatures[1].ODataID, "#/Temperatures/2") {
		t.Fatalf("expected identity path with index 2, got %s", thermal.Temperatures[1].ODataID)
	}
}

func TestThermalThresholdsAbsentStayAbsent(t *testing.T) {
	withThresholds := tempSensor("CPU Temp", 45, "OK")
	withThresholds.MaxWarning = fptr(70)
	withThresholds.MaxCritical = fptr(85)
	without := tempSensor("Inlet Temp", 30, "OK")

	thermal := testProjector().Thermal(snapshot.DeviceState{Sensors: []snapshot.Sensor{withThresholds, without}})

	data, err := json.Marshal(thermal.Temperatures[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := fields["UpperThresholdNonCritical"]; ok {
		t.Fatal("expected absent threshold to be omitted, not zeroed")
	}

	if got := thermal.Temperatures[0].UpperThresholdNonCritical; got == nil || *got != 70 {
		t.Fatalf("expected threshold 70 carried through, got %v", got)
	}
}

func TestThermalOemBlock(t *testing.T) {
	state := snapshot.DeviceState{Thermal: snapshot.Thermal{
		FanDutyPercent: 42.55,
		PID:            snapshot.PID{Kp: 2.5001, Ki: 0.5, Kd: 0.1, Setpoint: 60, Output: 41.27},
	}}
	thermal := testProjector().Thermal(state)

	oem := thermal.Oem.MicroBMC
	if oem.FanDutyPercent != 42.6 {
		t.Fatalf("expected fan duty rounded to 42.6, got %v", oem.FanDutyPercent)
	}
	if oem.PID.Output != 41.3 {
		t.Fatalf("expected output rounded to 41.3, got %v", oem.PID.Output)
	}
	// Gains pass through unrounded.
	if oem.PID.Kp != 2.5001 {
		t.Fatalf("expected kp unrounded, got %v", oem.PID.Kp)
	}
}

func TestPowerProjection(t *testing.T) {
	sensor := voltSensor("12V Rail", 3.30012, "OK")
	sensor.MinValid = fptr(3.1)
	sensor.MaxWarning = fptr(3.5)
	state := snapshot.DeviceState{Sensors: []snapshot.Sensor{
		tempSensor("CPU Temp", 45, "OK"),
		sensor,
	}}
	power := testProjector().Power(state)

	if len(power.Voltages) != 1 {
		t.Fatalf("expected 1 voltage, got %d", len(power.Voltages))
	}
	volt := power.Voltages[0]
	if volt.ReadingVolts != 3.3 {
		t.Fatalf("expected ReadingVolts 3.3, got %v", volt.ReadingVolts)
	}
	if volt.MemberID != "1" {
		t.Fatalf("expected full-list index 1, got %s", volt.MemberID)
	}
	if volt.LowerThresholdNonCritical == nil || *volt.LowerThresholdNonCritical != 3.1 {
		t.Fatalf("expected lower threshold 3.1, got %v", volt.LowerThresholdNonCritical)
	}
	if volt.UpperThresholdCritical != nil {
		t.Fatal("expected absent critical threshold to stay absent")
	}
}

func TestSensorCollectionCountInvariant(t *testing.T) {
	state := snapshot.DeviceState{Sensors: []snapshot.Sensor{
		tempSensor("CPU Temp", 45.678, "OK"),
		fanSensor("Fan1", 2600, "Warning"),
		voltSensor("12V Rail", 12.0512, "Critical"),
	}}
	sensors := testProjector().Sensors(state)

	if sensors.MembersCount != len(sensors.Members) {
		t.Fatalf("count %d does not match members %d", sensors.MembersCount, len(sensors.Members))
	}
	if len(sensors.Members) != 3 {
		t.Fatalf("expected every sensor regardless of type, got %d", len(sensors.Members))
	}
	if got := sensors.Members[0].Reading; got != 45.68 {
		t.Fatalf("expected reading rounded to 45.68, got %v", got)
	}
	if sensors.Members[1].Status != "Warning" {
		t.Fatalf("expected raw status string, got %q", sensors.Members[1].Status)
	}
	if sensors.Members[2].LastUpdated != 0 {
		t.Fatalf("expected absent last_updated to read 0, got %d", sensors.Members[2].LastUpdated)
	}
}

func TestEmptySnapshotProjectsEmptyLists(t *testing.T) {
	state := snapshot.DefaultDeviceState()
	projector := testProjector()

	thermal := projector.Thermal(state)
	data, err := json.Marshal(thermal)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if temps, ok := fields["Temperatures"].([]any); !ok || len(temps) != 0 {
		t.Fatalf("expected Temperatures to serialize as empty list, got %v", fields["Temperatures"])
	}
	if fans, ok := fields["Fans"].([]any); !ok || len(fans) != 0 {
		t.Fatalf("expected Fans to serialize as empty list, got %v", fields["Fans"])
	}

	if chassis := projector.Chassis(state); chassis.Status.Health != "OK" {
		t.Fatalf("expected OK health for empty snapshot, got %s", chassis.Status.Health)
	}
}

func TestSELEntriesProjection(t *testing.T) {
	sel := snapshot.EventLog{Entries: []snapshot.LogEntry{
		{ID: 7, Timestamp: 0, Severity: "Critical", Source: "fan", Message: "fan fail"},
		{ID: 8, Timestamp: 1700000000, Severity: "Info", Source: "sensor", Message: "boot"},
	}, Count: 2}
	entries := testProjector().SELEntries(sel)

	if entries.MembersCount != len(entries.Members) {
		t.Fatalf("count %d does not match members %d", entries.MembersCount, len(entries.Members))
	}

	first := entries.Members[0]
	if first.ODataID != "/redfish/v1/Managers/1/LogServices/SEL/Entries/7" {
		t.Fatalf("expected entry identity from raw id, got %s", first.ODataID)
	}
	if first.Severity != "Critical" {
		t.Fatalf("expected Critical severity, got %s", first.Severity)
	}
	if first.Created != "1970-01-01T00:00:00Z" {
		t.Fatalf("expected epoch sentinel for zero timestamp, got %s", first.Created)
	}
	if first.EntryType != "SEL" {
		t.Fatalf("expected SEL entry type, got %s", first.EntryType)
	}
	if len(first.MessageArgs) != 1 || first.MessageArgs[0] != "fan" {
		t.Fatalf("expected source in message args, got %v", first.MessageArgs)
	}

	second := entries.Members[1]
	if second.Severity != "OK" {
		t.Fatalf("expected Info mapped to OK, got %s", second.Severity)
	}
	if second.Created != "2023-11-14T22:13:20Z" {
		t.Fatalf("expected UTC ISO-8601 timestamp, got %s", second.Created)
	}
}

func TestSELEntryLookup(t *testing.T) {
	sel := snapshot.EventLog{Entries: []snapshot.LogEntry{
		{ID: 7, Severity: "Warning", Message: "hot"},
	}}
	projector := testProjector()

	entry, ok := projector.SELEntry(sel, 7)
	if !ok || entry.ID != "7" {
		t.Fatalf("expected entry 7, got %#v ok=%v", entry, ok)
	}
	if _, ok := projector.SELEntry(sel, 99); ok {
		t.Fatal("expected missing id to report not found")
	}
}

func TestUnknownSeverityMapsToOKAndWarns(t *testing.T) {
	var buf bytes.Buffer
	projector := NewProjector(Identity{}, log.New(&buf, "", 0))

	sel := snapshot.EventLog{Entries: []snapshot.LogEntry{
		{ID: 1, Severity: "Debug", Message: "noise"},
	}}
	entries := projector.SELEntries(sel)

	if entries.Members[0].Severity != "OK" {
		t.Fatalf("expected unknown severity mapped to OK, got %s", entries.Members[0].Severity)
	}
	if !strings.Contains(buf.String(), "unknown log severity") {
		t.Fatalf("expected a logged warning, got %q", buf.String())
	}
}

func TestSELServiceDescriptor(t *testing.T) {
	service := testProjector().SELService()
	if service.OverWritePolicy != "WrapsWhenFull" {
		t.Fatalf("expected WrapsWhenFull, got %s", service.OverWritePolicy)
	}
	if service.MaxNumberOfRecords != 256 {
		t.Fatalf("expected 256 max records, got %d", service.MaxNumberOfRecords)
	}
	if service.Entries.ODataID != "/redfish/v1/Managers/1/LogServices/SEL/Entries" {
		t.Fatalf("expected entries link, got %s", service.Entries.ODataID)
	}
}

func TestSecureBootVerifyReportsStoredResult(t *testing.T) {
	state := snapshot.DeviceState{SecureBoot: snapshot.SecureBoot{
		OverallPassed: true,
		Images:        []json.RawMessage{json.RawMessage(`{"name":"bootloader","passed":true}`)},
	}}
	result := testProjector().SecureBootVerify(state)

	if !result.OverallPassed {
		t.Fatal("expected overall passed carried through")
	}
	if len(result.Images) != 1 || string(result.Images[0]) != `{"name":"bootloader","passed":true}` {
		t.Fatalf("expected verbatim image records, got %v", result.Images)
	}
	if result.Message != "Secure boot verification complete" {
		t.Fatalf("unexpected message %q", result.Message)
	}

	empty := testProjector().SecureBootVerify(snapshot.DeviceState{})
	if empty.Images == nil || len(empty.Images) != 0 {
		t.Fatalf("expected empty image list, got %#v", empty.Images)
	}
}

func TestProjectionsAreIdempotent(t *testing.T) {
	state := snapshot.DeviceState{
		Sensors: []snapshot.Sensor{
			tempSensor("CPU Temp", 45.678, "Warning"),
			fanSensor("Fan1", 2600, "OK"),
			voltSensor("12V Rail", 12.05, "OK"),
		},
		Thermal: snapshot.Thermal{FanDutyPercent: 42.5, PID: snapshot.PID{Kp: 2.5, Setpoint: 60}},
	}
	projector := testProjector()

	first := projector.Thermal(state)
	second := projector.Thermal(state)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical documents for an unchanged snapshot")
	}

	a, err := json.Marshal(projector.Chassis(state))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(projector.Chassis(state))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expected byte-identical serialization for an unchanged snapshot")
	}
}
