// Package sandbox generates a synthetic clinic and renders it as a SQL
// script of INSERT statements.
package sandbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

var (
	genders         = []string{"M", "F"}
	employeeRoles   = []string{"Nurse", "Admin", "Technician", "Receptionist"}
	departments     = []string{"Front Desk", "Billing", "Laboratory", "Radiology"}
	paymentMethods  = []string{"Cash", "Card", "Insurance"}
	specializations = []string{
		"Cardiology", "Dermatology", "Orthopedics", "Radiology", "Pediatrics",
		"Neurology", "Ophthalmology", "Gynecology", "Endocrinology",
		"Gastroenterology", "Psychiatry", "Oncology", "Urology", "Pulmonology",
	}
	serviceCategories = []string{
		"Consultation", "Cardiology", "Dermatology", "Radiology", "Pediatrics",
		"Neurology", "Ophthalmology", "Gynecology", "Laboratory", "Endocrinology",
		"Gastroenterology", "Psychiatry", "Oncology", "Urology", "Pulmonology",
	}

	appointmentStatuses = []any{"Scheduled", "Completed", "Cancelled", "No-Show"}
	appointmentWeights  = []float32{10, 70, 10, 10}
	billingStatuses     = []any{"Completed", "Cancelled", "No-Show"}
	billingWeights      = []float32{70, 15, 15}
)

const (
	minCost = 10000
	maxCost = 50000
)

// Generator draws every random value from one seeded faker so a non-zero
// seed with a fixed clock reproduces the same dataset.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a Generator. A zero seed picks a random one.
func NewGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{faker: gofakeit.New(seed), now: now}
}

// Generate builds a dataset with the default clock.
func Generate(cfg SeedConfig) (*Dataset, error) {
	return NewGenerator(cfg.Seed, time.Now).Generate(cfg)
}

// Generate builds the tables in dependency order: Patients, Doctors,
// Services, Employees, Appointments, Billing, Feedback, Referrals. Every
// foreign key is drawn from ids generated earlier.
func (g *Generator) Generate(cfg SeedConfig) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := g.now()
	today := dateOf(now)
	ds := &Dataset{Database: cfg.Database}

	for i := 1; i <= cfg.Patients; i++ {
		ds.Patients = append(ds.Patients, Patient{
			ID:               i,
			FirstName:        g.faker.FirstName(),
			LastName:         g.faker.LastName(),
			DateOfBirth:      g.date(today.AddDate(-81, 0, 1), today.AddDate(-18, 0, 0)),
			Gender:           g.pick(genders),
			ContactNumber:    g.faker.PhoneFormatted(),
			Email:            g.faker.Email(),
			RegistrationDate: g.date(today.AddDate(-1, 0, 0), today),
		})
	}

	for i := 1; i <= cfg.Doctors; i++ {
		ds.Doctors = append(ds.Doctors, Doctor{
			ID:             i,
			FirstName:      "Dr. " + g.faker.FirstName(),
			LastName:       g.faker.LastName(),
			Specialization: g.pick(specializations),
			EmploymentDate: g.date(today.AddDate(-5, 0, 0), today),
		})
		ds.EmployeeIDs = append(ds.EmployeeIDs, i)
	}

	for i := 1; i <= cfg.Services; i++ {
		ds.Services = append(ds.Services, Service{
			ID:       i,
			Name:     capitalize(g.faker.Word()) + " Service",
			Category: g.pick(serviceCategories),
			Cost:     g.faker.Number(minCost, maxCost),
		})
	}

	for i := cfg.Doctors + 1; i <= cfg.Doctors+cfg.Employees; i++ {
		ds.Employees = append(ds.Employees, Employee{
			ID:             i,
			FirstName:      g.faker.FirstName(),
			LastName:       g.faker.LastName(),
			Role:           g.pick(employeeRoles),
			EmploymentDate: g.date(today.AddDate(-5, 0, 0), today),
			Department:     g.pick(departments),
		})
		ds.EmployeeIDs = append(ds.EmployeeIDs, i)
	}

	for i := 1; i <= cfg.Appointments; i++ {
		status, err := g.weighted(appointmentStatuses, appointmentWeights)
		if err != nil {
			return nil, err
		}
		ds.Appointments = append(ds.Appointments, Appointment{
			ID:        i,
			PatientID: ds.Patients[g.index(len(ds.Patients))].ID,
			DoctorID:  ds.Doctors[g.index(len(ds.Doctors))].ID,
			ServiceID: ds.Services[g.index(len(ds.Services))].ID,
			DateTime:  g.faker.DateRange(now.AddDate(-1, 0, 0), now).Truncate(time.Second),
			Status:    status,
		})
	}

	// Billing draws its own status per appointment instead of reading the
	// appointment's, so a billed appointment may be recorded as cancelled.
	for i := 1; i <= cfg.Appointments; i++ {
		status, err := g.weighted(billingStatuses, billingWeights)
		if err != nil {
			return nil, err
		}
		ds.BillingDraws = append(ds.BillingDraws, status)
		if status != "Completed" {
			continue
		}
		amount := g.faker.Number(minCost, maxCost)
		ds.Billing = append(ds.Billing, Billing{
			ID:            i,
			AppointmentID: i,
			TotalAmount:   amount,
			AmountPaid:    amount,
			PaymentDate:   g.date(today.AddDate(-1, 0, 0), today),
			PaymentMethod: g.pick(paymentMethods),
		})
	}

	for i := 1; i <= cfg.Feedback; i++ {
		ds.Feedback = append(ds.Feedback, Feedback{
			ID:            i,
			PatientID:     ds.Patients[g.index(len(ds.Patients))].ID,
			AppointmentID: ds.Appointments[g.index(len(ds.Appointments))].ID,
			Rating:        g.faker.Number(1, 5),
			Comments:      g.faker.Sentence(10),
			FeedbackDate:  g.date(today.AddDate(-1, 0, 0), today),
		})
	}

	for i := 1; i <= cfg.Referrals; i++ {
		ds.Referrals = append(ds.Referrals, Referral{
			ID:                 i,
			PatientID:          ds.Patients[g.index(len(ds.Patients))].ID,
			ReferringPhysician: fmt.Sprintf("Dr. %s %s", g.faker.FirstName(), g.faker.LastName()),
			ReferralDate:       g.date(today.AddDate(-1, 0, 0), today),
			Notes:              g.faker.Sentence(8),
		})
	}

	return ds, nil
}

func (g *Generator) pick(pool []string) string {
	return pool[g.index(len(pool))]
}

func (g *Generator) index(n int) int {
	return g.faker.Number(0, n-1)
}

func (g *Generator) weighted(options []any, weights []float32) (string, error) {
	v, err := g.faker.Weighted(options, weights)
	if err != nil {
		return "", fmt.Errorf("weighted draw: %w", err)
	}
	return v.(string), nil
}

// date returns a calendar date in [start, end].
func (g *Generator) date(start, end time.Time) time.Time {
	return dateOf(g.faker.DateRange(start, end))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
