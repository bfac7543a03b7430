package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLite    = "sqlite"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	Driver         string        `mapstructure:"DRIVER"`
	Server         string        `mapstructure:"SERVER"`
	Database       string        `mapstructure:"DATABASE"`
	DBUser         string        `mapstructure:"DB_UID"`
	DBPassword     string        `mapstructure:"DB_PWD"`
	DBEncrypt      bool          `mapstructure:"DB_ENCRYPT"`
	DBTrustCert    bool          `mapstructure:"DB_TRUST_SERVER_CERT"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8050")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_ENCRYPT", true)
	v.SetDefault("DB_TRUST_SERVER_CERT", true)
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DRIVER", "SERVER", "DATABASE", "DB_UID", "DB_PWD",
		"DB_ENCRYPT", "DB_TRUST_SERVER_CERT", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"REQUEST_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Driver = NormalizeDriver(cfg.Driver)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// NormalizeDriver maps the accepted spellings of a driver onto one of the
// Driver constants. ODBC style names such as "{ODBC Driver 18 for SQL Server}"
// resolve to sqlserver. Unknown names are returned lower-cased and unchanged
// so Validate can report them.
func NormalizeDriver(name string) string {
	n := strings.ToLower(strings.Trim(strings.TrimSpace(name), "{}"))
	switch {
	case n == "":
		return ""
	case strings.Contains(n, "sql server"), n == "sqlserver", n == "mssql":
		return DriverSQLServer
	case n == "postgres", n == "postgresql", n == "pgx":
		return DriverPostgres
	case n == "mysql", n == "mariadb":
		return DriverMySQL
	case n == "sqlite", n == "sqlite3":
		return DriverSQLite
	}
	return n
}

// Validate checks that every setting needed to reach the database is present.
// SQLite only needs DATABASE (the file path).
func (c *Config) Validate() error {
	switch c.Driver {
	case "":
		return fmt.Errorf("DRIVER is required")
	case DriverSQLServer, DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("DRIVER must be one of sqlserver, postgres, mysql, sqlite, got %q", c.Driver)
	}

	if c.Database == "" {
		return fmt.Errorf("DATABASE is required")
	}
	if c.Driver == DriverSQLite {
		return nil
	}
	if c.Server == "" {
		return fmt.Errorf("SERVER is required for driver %s", c.Driver)
	}
	if c.DBUser == "" {
		return fmt.Errorf("DB_UID is required for driver %s", c.Driver)
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PWD is required for driver %s", c.Driver)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
