package clinic

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type mockRepo struct {
	calls        []string
	categories   []string
	patients     []PatientDemographic
	appointments []AppointmentRecord
	revenue      []RevenueRecord
	failOn       string
}

func (m *mockRepo) record(name string) error {
	m.calls = append(m.calls, name)
	if m.failOn == name {
		return fmt.Errorf("connection reset")
	}
	return nil
}

func (m *mockRepo) ServiceCategories(ctx context.Context) ([]string, error) {
	return m.categories, m.record("categories")
}

func (m *mockRepo) PatientDemographics(ctx context.Context) ([]PatientDemographic, error) {
	return m.patients, m.record("patients")
}

func (m *mockRepo) AppointmentStatuses(ctx context.Context) ([]AppointmentRecord, error) {
	return m.appointments, m.record("appointments")
}

func (m *mockRepo) Revenue(ctx context.Context) ([]RevenueRecord, error) {
	return m.revenue, m.record("revenue")
}

func TestLoadSnapshot(t *testing.T) {
	loadedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		categories: []string{"Cardiology", "Radiology"},
		patients:   []PatientDemographic{{Gender: "M", Age: 33}},
		appointments: []AppointmentRecord{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Status: "Completed", Category: "Cardiology"},
		},
		revenue: []RevenueRecord{{PaymentDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Amount: 10000, Category: "Cardiology"}},
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return loadedAt }

	snap, err := svc.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"categories", "patients", "appointments", "revenue"}
	if fmt.Sprint(repo.calls) != fmt.Sprint(wantOrder) {
		t.Errorf("expected query order %v, got %v", wantOrder, repo.calls)
	}
	if len(snap.Categories) != 2 || len(snap.Patients) != 1 || len(snap.Appointments) != 1 || len(snap.Revenue) != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if !snap.LoadedAt.Equal(loadedAt) {
		t.Errorf("expected LoadedAt %s, got %s", loadedAt, snap.LoadedAt)
	}
}

func TestLoadSnapshot_StopsOnFirstError(t *testing.T) {
	repo := &mockRepo{failOn: "patients"}
	_, err := NewService(repo).LoadSnapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.calls) != 2 {
		t.Errorf("expected loading to stop after the failing query, got calls %v", repo.calls)
	}
}

func TestSnapshot_DateBounds(t *testing.T) {
	snap := &Snapshot{}
	if _, _, ok := snap.DateBounds(); ok {
		t.Error("expected no bounds for an empty snapshot")
	}

	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	snap.Appointments = []AppointmentRecord{{Date: d1}, {Date: d2}, {Date: d3}}

	first, last, ok := snap.DateBounds()
	if !ok || !first.Equal(d2) || !last.Equal(d3) {
		t.Errorf("expected bounds %s..%s, got %s..%s", d2, d3, first, last)
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2024, 3, 15, 23, 59, 0, 0, time.FixedZone("CET", 3600))
	got := Day(in)
	if !got.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected 2024-03-15 UTC, got %s", got)
	}
}
