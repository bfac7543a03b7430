package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// Database is an open handle on the clinic database. PostgreSQL goes through
// a pgx pool; the other drivers go through database/sql.
type Database struct {
	driver Driver
	pool   *pgxpool.Pool
	sqlDB  *sql.DB
}

// Open connects to the database described by opts and pings it.
func Open(ctx context.Context, opts Options) (*Database, error) {
	dsn, err := DataSourceName(opts)
	if err != nil {
		return nil, err
	}

	if opts.Driver == Postgres {
		pool, err := openPool(ctx, dsn, opts)
		if err != nil {
			return nil, err
		}
		return &Database{driver: Postgres, pool: pool}, nil
	}

	sqlDB, err := sql.Open(string(opts.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	if opts.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(opts.MaxConns))
	}
	sqlDB.SetMaxIdleConns(int(opts.MinConns))
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Database{driver: opts.Driver, sqlDB: sqlDB}, nil
}

func openPool(ctx context.Context, dsn string, opts Options) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MinConns = opts.MinConns
	cfg.MaxConnLifetime = time.Hour
	cfg.ConnConfig.RuntimeParams["application_name"] = "clinic-dashboard"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// FromPool wraps an existing pgx pool.
func FromPool(pool *pgxpool.Pool) *Database {
	return &Database{driver: Postgres, pool: pool}
}

// FromSQL wraps an existing database/sql handle opened for driver.
func FromSQL(driver Driver, sqlDB *sql.DB) *Database {
	return &Database{driver: driver, sqlDB: sqlDB}
}

func (d *Database) Driver() Driver { return d.driver }

// Pool returns the pgx pool, or nil when the driver is not postgres.
func (d *Database) Pool() *pgxpool.Pool { return d.pool }

// SQL returns the database/sql handle, or nil for postgres.
func (d *Database) SQL() *sql.DB { return d.sqlDB }

// Rows is the subset of pgx.Rows and *sql.Rows the callers need.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type sqlRows struct{ *sql.Rows }

func (r sqlRows) Close() { r.Rows.Close() }

// Query runs q with args written in the driver's placeholder style.
func (d *Database) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	if d.pool != nil {
		return d.pool.Query(ctx, q, args...)
	}
	rows, err := d.sqlDB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

// Placeholder returns the n-th (1-based) bind parameter marker for the driver.
func (d Driver) Placeholder(n int) string {
	switch d {
	case Postgres:
		return fmt.Sprintf("$%d", n)
	case SQLServer:
		return fmt.Sprintf("@p%d", n)
	}
	return "?"
}

func (d *Database) Ping(ctx context.Context) error {
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.sqlDB.PingContext(ctx)
}

// Stmt is one statement with its bind arguments.
type Stmt struct {
	SQL  string
	Args []any
}

// ExecAll runs stmts in order inside a single transaction.
func (d *Database) ExecAll(ctx context.Context, stmts ...Stmt) error {
	if d.pool != nil {
		tx, err := d.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		for i, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return tx.Commit(ctx)
	}

	tx, err := d.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

func (d *Database) Close() {
	if d.pool != nil {
		d.pool.Close()
		return
	}
	if d.sqlDB != nil {
		d.sqlDB.Close()
	}
}
