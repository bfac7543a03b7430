package db

import (
	"context"
	"strings"
	"testing"
)

const sampleScript = `USE HealthcareAppDB;
-- Insert Employee Data
INSERT INTO Employee (EmployeeID, FirstName) VALUES (1, 'Anna');

INSERT INTO Employee (EmployeeID, FirstName) VALUES (2, 'O''Brien');
GO
INSERT INTO Employee (EmployeeID, FirstName)
VALUES (3, 'Béla');
`

func TestParseScript(t *testing.T) {
	stmts, err := ParseScript(strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[0] != "INSERT INTO Employee (EmployeeID, FirstName) VALUES (1, 'Anna')" {
		t.Errorf("unexpected first statement %q", stmts[0])
	}
	if !strings.Contains(stmts[2], "\nVALUES (3, 'Béla')") {
		t.Errorf("expected multi-line statement to be joined, got %q", stmts[2])
	}
}

func TestParseScript_TrailingStatementWithoutSemicolon(t *testing.T) {
	stmts, err := ParseScript(strings.NewReader("INSERT INTO Service VALUES (1)"))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(stmts) != 1 || stmts[0] != "INSERT INTO Service VALUES (1)" {
		t.Errorf("unexpected statements %q", stmts)
	}
}

func TestLoadScript_SQLite(t *testing.T) {
	d := openSQLite(t)
	ctx := context.Background()

	if err := d.ExecAll(ctx, Stmt{SQL: "CREATE TABLE Employee (EmployeeID INTEGER PRIMARY KEY, FirstName TEXT)"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := d.LoadScript(ctx, strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 statements executed, got %d", n)
	}

	var name string
	if err := d.SQL().QueryRowContext(ctx, "SELECT FirstName FROM Employee WHERE EmployeeID = 2").Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "O'Brien" {
		t.Errorf("expected O'Brien, got %q", name)
	}
}
