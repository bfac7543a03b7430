package sandbox

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// databaseName is what the USE statement of the script accepts unquoted.
var databaseName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,127}$`)

// SeedConfig controls the volume of generated rows and where they go.
type SeedConfig struct {
	Database     string `yaml:"database"`
	Output       string `yaml:"output"`
	Seed         uint64 `yaml:"seed"`
	Patients     int    `yaml:"patients"`
	Doctors      int    `yaml:"doctors"`
	Services     int    `yaml:"services"`
	Employees    int    `yaml:"employees"`
	Appointments int    `yaml:"appointments"`
	Feedback     int    `yaml:"feedback"`
	Referrals    int    `yaml:"referrals"`
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Database:     "HealthcareAppDB",
		Output:       "insert_data.sql",
		Patients:     1000,
		Doctors:      50,
		Services:     30,
		Employees:    10,
		Appointments: 5000,
		Feedback:     500,
		Referrals:    200,
	}
}

// LoadSeedConfig reads a yaml file over the defaults. Keys missing from the
// file keep their default value.
func LoadSeedConfig(path string) (SeedConfig, error) {
	cfg := DefaultSeedConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read seed config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse seed config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects negative counts and child rows without parents to point at.
func (c SeedConfig) Validate() error {
	counts := map[string]int{
		"patients": c.Patients, "doctors": c.Doctors, "services": c.Services,
		"employees": c.Employees, "appointments": c.Appointments,
		"feedback": c.Feedback, "referrals": c.Referrals,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("%s count must not be negative, got %d", name, n)
		}
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if !databaseName.MatchString(c.Database) {
		return fmt.Errorf("database name %q is not a plain identifier", c.Database)
	}
	if c.Appointments > 0 && (c.Patients == 0 || c.Doctors == 0 || c.Services == 0) {
		return fmt.Errorf("appointments need at least one patient, doctor and service")
	}
	if c.Feedback > 0 && (c.Patients == 0 || c.Appointments == 0) {
		return fmt.Errorf("feedback needs at least one patient and appointment")
	}
	if c.Referrals > 0 && c.Patients == 0 {
		return fmt.Errorf("referrals need at least one patient")
	}
	return nil
}
