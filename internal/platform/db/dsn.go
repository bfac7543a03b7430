package db

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Driver identifies one of the supported database backends. Its value doubles
// as the SQL dialect name used by the reporting queries.
type Driver string

const (
	SQLServer Driver = "sqlserver"
	Postgres  Driver = "postgres"
	MySQL     Driver = "mysql"
	SQLite    Driver = "sqlite"
)

// Options describes how to reach the clinic database.
type Options struct {
	Driver    Driver
	Server    string
	Database  string
	User      string
	Password  string
	Encrypt   bool
	TrustCert bool
	MaxConns  int32
	MinConns  int32
}

// DataSourceName renders opts into the connection string expected by the
// driver. Encrypt with TrustCert requests TLS without certificate validation.
func DataSourceName(opts Options) (string, error) {
	switch opts.Driver {
	case Postgres:
		return postgresURL(opts), nil
	case SQLServer:
		return sqlServerURL(opts), nil
	case MySQL:
		return mysqlDSN(opts), nil
	case SQLite:
		return opts.Database, nil
	}
	return "", fmt.Errorf("unsupported driver %q", opts.Driver)
}

func postgresURL(opts Options) string {
	sslmode := "disable"
	if opts.Encrypt {
		sslmode = "verify-full"
		if opts.TrustCert {
			sslmode = "require"
		}
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(opts.User, opts.Password),
		Host:     opts.Server,
		Path:     "/" + opts.Database,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

func sqlServerURL(opts Options) string {
	q := url.Values{}
	q.Set("database", opts.Database)
	if opts.Encrypt {
		q.Set("encrypt", "true")
	} else {
		q.Set("encrypt", "disable")
	}
	if opts.TrustCert {
		q.Set("TrustServerCertificate", "true")
	}
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(opts.User, opts.Password),
		Host:     sqlServerHost(opts.Server),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// sqlServerHost accepts the "host,port" notation used by SQL Server tooling.
func sqlServerHost(server string) string {
	host, port, found := strings.Cut(server, ",")
	if !found {
		return server
	}
	return net.JoinHostPort(strings.TrimSpace(host), strings.TrimSpace(port))
}

func mysqlDSN(opts Options) string {
	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = opts.Server
	cfg.DBName = opts.Database
	cfg.ParseTime = true
	cfg.MultiStatements = true
	switch {
	case opts.Encrypt && opts.TrustCert:
		cfg.TLSConfig = "skip-verify"
	case opts.Encrypt:
		cfg.TLSConfig = "true"
	default:
		cfg.TLSConfig = "false"
	}
	return cfg.FormatDSN()
}
