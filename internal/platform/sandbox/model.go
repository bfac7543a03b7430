package sandbox

import "time"

type Patient struct {
	ID               int
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Gender           string
	ContactNumber    string
	Email            string
	RegistrationDate time.Time
}

type Doctor struct {
	ID             int
	FirstName      string
	LastName       string
	Specialization string
	EmploymentDate time.Time
}

type Service struct {
	ID       int
	Name     string
	Category string
	Cost     int
}

type Employee struct {
	ID             int
	FirstName      string
	LastName       string
	Role           string
	EmploymentDate time.Time
	Department     string
}

type Appointment struct {
	ID        int
	PatientID int
	DoctorID  int
	ServiceID int
	DateTime  time.Time
	Status    string
}

type Billing struct {
	ID            int
	AppointmentID int
	TotalAmount   int
	AmountPaid    int
	PaymentDate   time.Time
	PaymentMethod string
}

type Feedback struct {
	ID            int
	PatientID     int
	AppointmentID int
	Rating        int
	Comments      string
	FeedbackDate  time.Time
}

type Referral struct {
	ID                 int
	PatientID          int
	ReferringPhysician string
	ReferralDate       time.Time
	Notes              string
}

// Dataset is one generated clinic, in generation order.
type Dataset struct {
	Database     string
	Patients     []Patient
	Doctors      []Doctor
	Services     []Service
	Employees    []Employee
	Appointments []Appointment
	Billing      []Billing
	Feedback     []Feedback
	Referrals    []Referral

	// EmployeeIDs holds doctor ids followed by the other employees' ids.
	EmployeeIDs []int
	// BillingDraws[i] is the status drawn for appointment i+1 when deciding
	// whether it gets a billing row. Only "Completed" draws do.
	BillingDraws []string
}

// Counts returns the number of rows per table, keyed by table name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"Patients":     len(d.Patients),
		"Doctors":      len(d.Doctors),
		"Services":     len(d.Services),
		"Employee":     len(d.Employees),
		"Appointments": len(d.Appointments),
		"Billing":      len(d.Billing),
		"Feedback":     len(d.Feedback),
		"Referrals":    len(d.Referrals),
	}
}
