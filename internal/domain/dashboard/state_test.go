package dashboard

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/healthcare/clinic-dashboard/internal/domain/clinic"
)

func testSnapshot() *clinic.Snapshot {
	return &clinic.Snapshot{
		Categories: []string{"Cardiology", "Laboratory", "Radiology"},
		Patients: []clinic.PatientDemographic{
			{Gender: "F", Age: 25}, {Gender: "M", Age: 47}, {Gender: "F", Age: 63}, {Gender: "M", Age: 80},
		},
		Appointments: appointmentFixture(),
		Revenue: []clinic.RevenueRecord{
			{PaymentDate: day("2023-01-10"), Amount: 100, Category: "Cardiology"},
			{PaymentDate: day("2024-01-01"), Amount: 150, Category: "Radiology"},
			{PaymentDate: day("2024-01-03"), Amount: 80, Category: "Cardiology"},
		},
	}
}

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(testSnapshot(), day("2024-02-19"))
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func decodeOption(t *testing.T, fig Figure) map[string]interface{} {
	t.Helper()
	var option map[string]interface{}
	if err := json.Unmarshal(fig.Option, &option); err != nil {
		t.Fatalf("figure %s: option is not a JSON object: %v", fig.ID, err)
	}
	if _, ok := option["series"]; !ok {
		t.Errorf("figure %s: option has no series", fig.ID)
	}
	return option
}

func TestNewState(t *testing.T) {
	s := newTestState(t)

	if !s.HasDates || !s.First.Equal(day("2024-01-01")) || !s.Last.Equal(day("2024-01-05")) {
		t.Errorf("unexpected date bounds %v..%v (%v)", s.First, s.Last, s.HasDates)
	}

	ids := []string{FigAgeDistribution, FigGenderRatio, FigRevenueGrowth, FigYTDRevenue}
	if len(s.Static) != len(ids) {
		t.Fatalf("expected %d static figures, got %d", len(ids), len(s.Static))
	}
	for i, id := range ids {
		if s.Static[i].ID != id {
			t.Errorf("static figure %d: expected %s, got %s", i, id, s.Static[i].ID)
		}
		decodeOption(t, s.Static[i])
	}
	growth := string(s.Static[2].Option)
	if !strings.Contains(growth, `"name":"130.00%","value":230`) {
		t.Errorf("expected a 130.00%% label on the 2024 bar, got %s", growth)
	}
	if !strings.Contains(growth, `"name":" ","value":100`) {
		t.Errorf("expected a blank label on the earliest year, got %s", growth)
	}
}

func TestNewState_EmptySnapshot(t *testing.T) {
	s, err := NewState(&clinic.Snapshot{}, day("2024-02-19"))
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if s.HasDates {
		t.Error("expected no date bounds without appointments")
	}
	for _, fig := range s.Static {
		decodeOption(t, fig)
	}
}

func TestUpdate_FixedOrder(t *testing.T) {
	s := newTestState(t)
	figures, err := Update(s, s.DefaultFilter())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	ids := []string{FigAppointmentsOverTime, FigRevenueOverTime, FigAppointmentStatus}
	if len(figures) != len(ids) {
		t.Fatalf("expected %d figures, got %d", len(ids), len(figures))
	}
	for i, id := range ids {
		if figures[i].ID != id {
			t.Errorf("slot %d: expected %s, got %s", i, id, figures[i].ID)
		}
	}

	option := decodeOption(t, figures[0])
	series, _ := option["series"].([]interface{})
	if len(series) != 2 {
		t.Errorf("expected scatter and trend series, got %d", len(series))
	}
	if !strings.Contains(string(figures[2].Option), "Completed") {
		t.Error("expected the status figure to list Completed")
	}
}

func TestUpdate_EmptySelections(t *testing.T) {
	s := newTestState(t)

	cases := map[string]Filter{
		"out of range":  {Start: day("2030-01-01"), End: day("2030-12-31"), Categories: s.Snapshot.Categories},
		"no categories": {Start: s.First, End: s.Last},
		"reversed":      {Start: s.Last, End: s.First, Categories: s.Snapshot.Categories},
	}
	for name, f := range cases {
		figures, err := Update(s, f)
		if err != nil {
			t.Fatalf("%s: Update: %v", name, err)
		}
		if len(figures) != 3 {
			t.Fatalf("%s: expected 3 figures, got %d", name, len(figures))
		}
		for _, fig := range figures {
			decodeOption(t, fig)
		}
		if strings.Contains(string(figures[2].Option), "Completed") {
			t.Errorf("%s: expected no statuses", name)
		}
	}
}

func TestUpdate_SingleDayHasNoTrend(t *testing.T) {
	s := newTestState(t)
	figures, err := Update(s, Filter{Start: day("2024-01-02"), End: day("2024-01-02"), Categories: s.Snapshot.Categories})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	series, _ := decodeOption(t, figures[0])["series"].([]interface{})
	if len(series) != 1 {
		t.Errorf("expected only the scatter series, got %d", len(series))
	}
}
