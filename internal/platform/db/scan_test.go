package db

import (
	"testing"
	"time"
)

func TestAsTime(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
	}{
		{"time", want},
		{"date string", "2024-03-15"},
		{"date bytes", []byte("2024-03-15")},
		{"datetime string", "2024-03-15 00:00:00"},
		{"rfc3339", "2024-03-15T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsTime(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("expected %s, got %s", want, got)
			}
		})
	}

	for _, bad := range []any{"not a date", []byte("2024-13-45"), nil, int64(20240315)} {
		if got, err := AsTime(bad); err == nil {
			t.Errorf("AsTime(%v): expected error, got %s", bad, got)
		}
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{float64(12.5), 12.5},
		{int64(7), 7},
		{[]byte("1234.56"), 1234.56},
		{"99.90", 99.9},
		{nil, 0},
	}
	for _, tt := range tests {
		got, err := AsFloat(tt.in)
		if err != nil {
			t.Errorf("AsFloat(%v): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AsFloat(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := AsFloat(true); err == nil {
		t.Error("expected error for bool")
	}
	if _, err := AsFloat("abc"); err == nil {
		t.Error("expected error for non-numeric text")
	}
}

func TestAsString(t *testing.T) {
	if AsString(nil) != "" {
		t.Error("expected empty string for nil")
	}
	if AsString([]byte("Male")) != "Male" {
		t.Error("expected bytes to convert")
	}
	if AsString("Female") != "Female" {
		t.Error("expected string to pass through")
	}
}
