package redfish

import "encoding/json"

// Resource paths are part of the wire contract; generic Redfish clients
// navigate these exact strings.
const (
	PathServiceRoot       = "/redfish/v1/"
	PathChassisCollection = "/redfish/v1/Chassis"
	PathChassis           = "/redfish/v1/Chassis/1"
	PathThermal           = "/redfish/v1/Chassis/1/Thermal"
	PathPower             = "/redfish/v1/Chassis/1/Power"
	PathSensors           = "/redfish/v1/Chassis/1/Sensors"
	PathManagerCollection = "/redfish/v1/Managers"
	PathManager           = "/redfish/v1/Managers/1"
	PathLogServices       = "/redfish/v1/Managers/1/LogServices"
	PathSELService        = "/redfish/v1/Managers/1/LogServices/SEL"
	PathSELEntries        = "/redfish/v1/Managers/1/LogServices/SEL/Entries"
	PathSecureBootVerify  = "/redfish/v1/Managers/1/Actions/SecureBoot.Verify"
)

// Link is an @odata navigation reference.
type Link struct {
	ODataID string `json:"@odata.id"`
}

// Status is the standard Redfish status block.
type Status struct {
	State  string `json:"State"`
	Health string `json:"Health"`
}

// ServiceRoot is the fixed entry document for Redfish navigation.
type ServiceRoot struct {
	ODataID        string `json:"@odata.id"`
	ODataType      string `json:"@odata.type"`
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	RedfishVersion string `json:"RedfishVersion"`
	UUID           string `json:"UUID"`
	Chassis        Link   `json:"Chassis"`
	Managers       Link   `json:"Managers"`
}

// Collection is a Redfish collection of links. The member count always
// equals len(Members).
type Collection struct {
	ODataID      string `json:"@odata.id"`
	ODataType    string `json:"@odata.type,omitempty"`
	Name         string `json:"Name"`
	Members      []Link `json:"Members"`
	MembersCount int    `json:"Members@odata.count"`
}

// Chassis describes the managed enclosure. Status.Health carries the
// overall rollup over every sensor.
type Chassis struct {
	ODataID      string       `json:"@odata.id"`
	ODataType    string       `json:"@odata.type"`
	ID           string       `json:"Id"`
	Name         string       `json:"Name"`
	ChassisType  string       `json:"ChassisType"`
	Manufacturer string       `json:"Manufacturer"`
	Model        string       `json:"Model"`
	SerialNumber string       `json:"SerialNumber"`
	Status       Status       `json:"Status"`
	Thermal      Link         `json:"Thermal"`
	Power        Link         `json:"Power"`
	Links        ChassisLinks `json:"Links"`
}

// ChassisLinks holds chassis navigation links.
type ChassisLinks struct {
	ManagedBy []Link `json:"ManagedBy"`
}

// Thermal carries temperature and fan readings plus the OEM fan-control
// block.
type Thermal struct {
	ODataID      string        `json:"@odata.id"`
	ODataType    string        `json:"@odata.type"`
	ID           string        `json:"Id"`
	Name         string        `json:"Name"`
	Temperatures []Temperature `json:"Temperatures"`
	Fans         []Fan         `json:"Fans"`
	Oem          Oem           `json:"Oem"`
}

// Temperature is one temperature reading. MemberId is the sensor's index
// in the full sensor list, which keeps the identity stable across list
// mutations that do not reorder sensors.
type Temperature struct {
	ODataID                   string   `json:"@odata.id"`
	MemberID                  string   `json:"MemberId"`
	Name                      string   `json:"Name"`
	ReadingCelsius            float64  `json:"ReadingCelsius"`
	Status                    Status   `json:"Status"`
	UpperThresholdNonCritical *float64 `json:"UpperThresholdNonCritical,omitempty"`
	UpperThresholdCritical    *float64 `json:"UpperThresholdCritical,omitempty"`
}

// Fan is one fan reading, in whole RPM.
type Fan struct {
	ODataID      string `json:"@odata.id"`
	MemberID     string `json:"MemberId"`
	Name         string `json:"Name"`
	Reading      int    `json:"Reading"`
	ReadingUnits string `json:"ReadingUnits"`
	Status       Status `json:"Status"`
}

// Oem is the vendor-extension block on Thermal.
type Oem struct {
	MicroBMC OemFanControl `json:"MicroBMC"`
}

// OemFanControl exposes fan duty and the PID controller state.
type OemFanControl struct {
	FanDutyPercent float64 `json:"FanDutyPercent"`
	PID            OemPID  `json:"PID"`
}

// OemPID mirrors the controller gains and output. Gains are passed
// through unrounded; output is rounded to one decimal.
type OemPID struct {
	Kp       float64 `json:"Kp"`
	Ki       float64 `json:"Ki"`
	Kd       float64 `json:"Kd"`
	Setpoint float64 `json:"Setpoint"`
	Output   float64 `json:"Output"`
}

// Power carries voltage readings.
type Power struct {
	ODataID   string    `json:"@odata.id"`
	ODataType string    `json:"@odata.type"`
	ID        string    `json:"Id"`
	Name      string    `json:"Name"`
	Voltages  []Voltage `json:"Voltages"`
}

// Voltage is one voltage reading, rounded to three decimals.
type Voltage struct {
	ODataID                   string   `json:"@odata.id"`
	MemberID                  string   `json:"MemberId"`
	Name                      string   `json:"Name"`
	ReadingVolts              float64  `json:"ReadingVolts"`
	Status                    Status   `json:"Status"`
	LowerThresholdNonCritical *float64 `json:"LowerThresholdNonCritical,omitempty"`
	UpperThresholdNonCritical *float64 `json:"UpperThresholdNonCritical,omitempty"`
	UpperThresholdCritical    *float64 `json:"UpperThresholdCritical,omitempty"`
}

// SensorCollection is the flat, unfiltered view of every sensor.
type SensorCollection struct {
	ODataID      string         `json:"@odata.id"`
	Name         string         `json:"Name"`
	Members      []SensorMember `json:"Members"`
	MembersCount int            `json:"Members@odata.count"`
}

// SensorMember is one sensor in the flat collection, any type, reading
// rounded to two decimals.
type SensorMember struct {
	ODataID     string  `json:"@odata.id"`
	ID          string  `json:"Id"`
	Name        string  `json:"Name"`
	Type        string  `json:"Type"`
	Reading     float64 `json:"Reading"`
	Status      string  `json:"Status"`
	LastUpdated int64   `json:"LastUpdated"`
}

// Manager is the management controller document.
type Manager struct {
	ODataID         string         `json:"@odata.id"`
	ODataType       string         `json:"@odata.type"`
	ID              string         `json:"Id"`
	Name            string         `json:"Name"`
	ManagerType     string         `json:"ManagerType"`
	FirmwareVersion string         `json:"FirmwareVersion"`
	Status          Status         `json:"Status"`
	LogServices     Link           `json:"LogServices"`
	Actions         ManagerActions `json:"Actions"`
}

// ManagerActions advertises the manager's invokable actions.
type ManagerActions struct {
	SecureBootVerify ActionTarget `json:"#SecureBoot.Verify"`
}

// ActionTarget is an action invocation link.
type ActionTarget struct {
	Target string `json:"target"`
}

// LogService describes the SEL log service.
type LogService struct {
	ODataID            string `json:"@odata.id"`
	ODataType          string `json:"@odata.type"`
	ID                 string `json:"Id"`
	Name               string `json:"Name"`
	Entries            Link   `json:"Entries"`
	OverWritePolicy    string `json:"OverWritePolicy"`
	MaxNumberOfRecords int    `json:"MaxNumberOfRecords"`
	Status             Status `json:"Status"`
}

// LogEntryCollection holds projected SEL entries.
type LogEntryCollection struct {
	ODataID      string           `json:"@odata.id"`
	Name         string           `json:"Name"`
	Members      []LogEntryMember `json:"Members"`
	MembersCount int              `json:"Members@odata.count"`
}

// LogEntryMember is one projected SEL entry. The Id is the raw log id in
// string form.
type LogEntryMember struct {
	ODataID     string   `json:"@odata.id"`
	ID          string   `json:"Id"`
	Severity    string   `json:"Severity"`
	Created     string   `json:"Created"`
	EntryType   string   `json:"EntryType"`
	Message     string   `json:"Message"`
	MessageArgs []string `json:"MessageArgs"`
}

// SecureBootResult reports the last stored verification outcome. Image
// records pass through verbatim.
type SecureBootResult struct {
	OverallPassed bool              `json:"OverallPassed"`
	Images        []json.RawMessage `json:"Images"`
	Message       string            `json:"Message"`
}
