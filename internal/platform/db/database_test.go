package db

import (
	"context"
	"strings"
	"testing"
)

func TestOpen_SQLite(t *testing.T) {
	d := openSQLite(t)
	if d.Driver() != SQLite {
		t.Errorf("expected driver sqlite, got %s", d.Driver())
	}
	if d.Pool() != nil {
		t.Error("expected nil pgx pool for sqlite")
	}
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestExecAll_CommitsAll(t *testing.T) {
	d := openSQLite(t)
	ctx := context.Background()

	err := d.ExecAll(ctx,
		Stmt{SQL: "CREATE TABLE Service (ServiceID INTEGER PRIMARY KEY, ServiceName TEXT)"},
		Stmt{SQL: "INSERT INTO Service (ServiceID, ServiceName) VALUES (?, ?)", Args: []any{1, "X-ray"}},
		Stmt{SQL: "INSERT INTO Service (ServiceID, ServiceName) VALUES (?, ?)", Args: []any{2, "MRI"}},
	)
	if err != nil {
		t.Fatalf("ExecAll: %v", err)
	}

	var n int
	if err := d.SQL().QueryRowContext(ctx, "SELECT COUNT(*) FROM Service").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
}

func TestExecAll_RollsBackOnError(t *testing.T) {
	d := openSQLite(t)
	ctx := context.Background()

	if err := d.ExecAll(ctx, Stmt{SQL: "CREATE TABLE Service (ServiceID INTEGER PRIMARY KEY)"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := d.ExecAll(ctx,
		Stmt{SQL: "INSERT INTO Service (ServiceID) VALUES (1)"},
		Stmt{SQL: "INSERT INTO Missing (ID) VALUES (1)"},
	)
	if err == nil {
		t.Fatal("expected error for missing table")
	}
	if !strings.Contains(err.Error(), "statement 2") {
		t.Errorf("expected error to name statement 2, got %v", err)
	}

	var n int
	if err := d.SQL().QueryRowContext(ctx, "SELECT COUNT(*) FROM Service").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback to leave 0 rows, got %d", n)
	}
}

func TestQuery_SQLite(t *testing.T) {
	d := openSQLite(t)
	ctx := context.Background()

	rows, err := d.Query(ctx, "SELECT 1 UNION ALL SELECT 2")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	sum := 0
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan: %v", err)
		}
		sum += v
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	if sum != 3 {
		t.Errorf("expected sum 3, got %d", sum)
	}
}
