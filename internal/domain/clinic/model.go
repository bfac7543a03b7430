package clinic

import "time"

// PatientDemographic is one row of the patient-demographics query.
type PatientDemographic struct {
	Gender string `json:"gender"`
	Age    int    `json:"age"`
}

// AppointmentRecord is one appointment reduced to its day, status and category.
type AppointmentRecord struct {
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Category string    `json:"category"`
}

// RevenueRecord is one billing row joined to its service category.
type RevenueRecord struct {
	PaymentDate time.Time `json:"payment_date"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
}

// Snapshot holds the four query results read at startup. It is never
// modified after LoadSnapshot returns.
type Snapshot struct {
	Categories   []string
	Patients     []PatientDemographic
	Appointments []AppointmentRecord
	Revenue      []RevenueRecord
	LoadedAt     time.Time
}

// DateBounds returns the earliest and latest appointment day. ok is false
// when there are no appointments.
func (s *Snapshot) DateBounds() (first, last time.Time, ok bool) {
	for i, a := range s.Appointments {
		if i == 0 || a.Date.Before(first) {
			first = a.Date
		}
		if i == 0 || a.Date.After(last) {
			last = a.Date
		}
	}
	return first, last, len(s.Appointments) > 0
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
