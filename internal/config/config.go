package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Identity defines the static identification fields of the managed node.
type Identity struct {
	ServiceName     string `yaml:"service_name"`
	ChassisName     string `yaml:"chassis_name"`
	Manufacturer    string `yaml:"manufacturer"`
	Model           string `yaml:"model"`
	SerialNumber    string `yaml:"serial_number"`
	FirmwareVersion string `yaml:"firmware_version"`
	UUID            string `yaml:"uuid"`
}

// Config defines service configuration. Values come from defaults, then
// an optional YAML file named by BMC_CONFIG, then environment overrides.
type Config struct {
	HTTPAddr      string   `yaml:"http_addr"`
	StateFile     string   `yaml:"state_file"`
	SELFile       string   `yaml:"sel_file"`
	Identity      Identity `yaml:"identity"`
	SELMaxRecords int      `yaml:"sel_max_records"`

	// ArchiveInterval controls the SEL archive pass cadence; the archiver
	// only runs when ArchiveDSN is set.
	ArchiveDSN      string        `yaml:"-"`
	ArchiveInterval time.Duration `yaml:"archive_interval"`

	// JWTSecret enables the bearer-token gate when non-empty.
	JWTSecret string `yaml:"-"`
}

// Load resolves configuration.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:  ":8080",
		StateFile: "/tmp/bmc_state.json",
		SELFile:   "/tmp/bmc_sel.json",
		Identity: Identity{
			ServiceName:     "MicroBMC Redfish Service",
			ChassisName:     "MicroBMC Managed Server",
			Manufacturer:    "MicroBMC",
			Model:           "BMC-1000",
			SerialNumber:    "MB000001",
			FirmwareVersion: "1.0.0",
			UUID:            "00000000-0000-0000-0000-000000000001",
		},
		SELMaxRecords:   256,
		ArchiveInterval: 30 * time.Second,
	}

	if path := os.Getenv("BMC_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.StateFile = getenvDefault("BMC_STATE_FILE", cfg.StateFile)
	cfg.SELFile = getenvDefault("BMC_SEL_FILE", cfg.SELFile)
	cfg.SELMaxRecords = getenvIntDefault("BMC_SEL_MAX_RECORDS", cfg.SELMaxRecords)
	cfg.ArchiveDSN = getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", ""))
	cfg.ArchiveInterval = getenvDuration("BMC_ARCHIVE_INTERVAL", cfg.ArchiveInterval)
	cfg.JWTSecret = getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", ""))

	if cfg.StateFile == "" || cfg.SELFile == "" {
		return cfg, errors.New("config: state and sel file paths required")
	}
	if cfg.SELMaxRecords <= 0 {
		return cfg, errors.New("config: sel_max_records must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
