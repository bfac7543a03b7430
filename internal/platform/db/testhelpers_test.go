package db

import (
	"context"
	"path/filepath"
	"testing"
)

func openSQLite(t *testing.T) *Database {
	t.Helper()
	d, err := Open(context.Background(), Options{
		Driver:   SQLite,
		Database: filepath.Join(t.TempDir(), "clinic.db"),
		MaxConns: 1,
		MinConns: 1,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}
