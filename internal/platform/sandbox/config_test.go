package sandbox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := "database: ClinicDemo\nseed: 7\npatients: 25\nappointments: 100\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadSeedConfig(path)
	if err != nil {
		t.Fatalf("LoadSeedConfig: %v", err)
	}
	if cfg.Database != "ClinicDemo" || cfg.Seed != 7 || cfg.Patients != 25 || cfg.Appointments != 100 {
		t.Errorf("expected file values to apply, got %+v", cfg)
	}
	if cfg.Doctors != 50 || cfg.Referrals != 200 {
		t.Errorf("expected unspecified counts to keep defaults, got %+v", cfg)
	}
}

func TestLoadSeedConfig_Errors(t *testing.T) {
	if _, err := LoadSeedConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("patients: [1, 2"), 0644)
	if _, err := LoadSeedConfig(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestDefaultSeedConfig(t *testing.T) {
	cfg := DefaultSeedConfig()
	if cfg.Patients != 1000 || cfg.Doctors != 50 || cfg.Services != 30 || cfg.Employees != 10 ||
		cfg.Appointments != 5000 || cfg.Feedback != 500 || cfg.Referrals != 200 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestSeedConfig_ValidateDatabaseName(t *testing.T) {
	for _, name := range []string{"HealthcareAppDB", "clinic_2024", "_scratch"} {
		cfg := DefaultSeedConfig()
		cfg.Database = name
		if err := cfg.Validate(); err != nil {
			t.Errorf("%q: unexpected error %v", name, err)
		}
	}
	for _, name := range []string{"Clinic DB", "db;DROP TABLE Patients", "2024db", "clinic-db", "[Clinic]"} {
		cfg := DefaultSeedConfig()
		cfg.Database = name
		if err := cfg.Validate(); err == nil {
			t.Errorf("%q: expected error", name)
		}
	}
}
