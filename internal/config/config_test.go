package config

import (
	"testing"
	"time"
)

func setDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DRIVER", "{ODBC Driver 18 for SQL Server}")
	t.Setenv("SERVER", "localhost,1433")
	t.Setenv("DATABASE", "HealthcareAppDB")
	t.Setenv("DB_UID", "sa")
	t.Setenv("DB_PWD", "secret")
}

func TestLoad_RequiresDriver(t *testing.T) {
	setDBEnv(t)
	t.Setenv("DRIVER", "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when DRIVER is missing")
	}
}

func TestLoad_RequiresCredentials(t *testing.T) {
	setDBEnv(t)
	t.Setenv("DB_PWD", "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when DB_PWD is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setDBEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Driver != DriverSQLServer {
		t.Errorf("expected driver sqlserver, got %s", cfg.Driver)
	}
	if cfg.Port != "8050" {
		t.Errorf("expected default port 8050, got %s", cfg.Port)
	}
	if !cfg.DBEncrypt {
		t.Error("expected DB_ENCRYPT to default to true")
	}
	if !cfg.DBTrustCert {
		t.Error("expected DB_TRUST_SERVER_CERT to default to true")
	}
	if cfg.DBMaxConns != 5 {
		t.Errorf("expected default max conns 5, got %d", cfg.DBMaxConns)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected default request timeout 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("expected default rate limit 20/40, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoad_SQLiteNeedsOnlyDatabase(t *testing.T) {
	t.Setenv("DRIVER", "sqlite")
	t.Setenv("DATABASE", "clinic.db")
	t.Setenv("SERVER", "")
	t.Setenv("DB_UID", "")
	t.Setenv("DB_PWD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Driver != DriverSQLite {
		t.Errorf("expected sqlite, got %s", cfg.Driver)
	}
}

func TestNormalizeDriver(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{ODBC Driver 17 for SQL Server}", DriverSQLServer},
		{"mssql", DriverSQLServer},
		{"SQLServer", DriverSQLServer},
		{"postgresql", DriverPostgres},
		{"pgx", DriverPostgres},
		{"MariaDB", DriverMySQL},
		{"sqlite3", DriverSQLite},
		{"", ""},
		{"Oracle", "oracle"},
	}
	for _, tt := range tests {
		if got := NormalizeDriver(tt.in); got != tt.want {
			t.Errorf("NormalizeDriver(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	c := &Config{Driver: "oracle", Database: "x"}
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	c := &Config{
		Driver: DriverPostgres, Database: "clinic", Server: "db",
		DBUser: "u", DBPassword: "p", DBMaxConns: 2, DBMinConns: 3,
	}
	if err := c.Validate(); err == nil {
		t.Error("expected error when min conns exceed max conns")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
