package sandbox

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// quote renders s as a SQL string literal, doubling embedded single quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteDate(t time.Time) string { return quote(t.Format(dateLayout)) }

// WriteSQL writes the dataset as a script: a USE directive, then per table a
// comment header and one INSERT per line in generation order.
func (d *Dataset) WriteSQL(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "USE %s;\nGO\n", d.Database)

	fmt.Fprint(bw, "-- Patients\n")
	for _, p := range d.Patients {
		fmt.Fprintf(bw, "INSERT INTO Patients (PatientID, FirstName, LastName, DateOfBirth, Gender, ContactNumber, Email, RegistrationDate) VALUES (%d, %s, %s, %s, %s, %s, %s, %s);\n",
			p.ID, quote(p.FirstName), quote(p.LastName), quoteDate(p.DateOfBirth), quote(p.Gender),
			quote(p.ContactNumber), quote(p.Email), quoteDate(p.RegistrationDate))
	}

	fmt.Fprint(bw, "\n-- Doctors\n")
	for _, doc := range d.Doctors {
		fmt.Fprintf(bw, "INSERT INTO Doctors (DoctorID, FirstName, LastName, Specialization, EmploymentDate) VALUES (%d, %s, %s, %s, %s);\n",
			doc.ID, quote(doc.FirstName), quote(doc.LastName), quote(doc.Specialization), quoteDate(doc.EmploymentDate))
	}

	fmt.Fprint(bw, "\n-- Services\n")
	for _, s := range d.Services {
		fmt.Fprintf(bw, "INSERT INTO Services (ServiceID, ServiceName, ServiceCategory, Cost) VALUES (%d, %s, %s, %d);\n",
			s.ID, quote(s.Name), quote(s.Category), s.Cost)
	}

	fmt.Fprint(bw, "\n-- Employees\n")
	for _, e := range d.Employees {
		fmt.Fprintf(bw, "INSERT INTO Employee (EmployeeID, FirstName, LastName, Role, EmploymentDate, Department) VALUES (%d, %s, %s, %s, %s, %s);\n",
			e.ID, quote(e.FirstName), quote(e.LastName), quote(e.Role), quoteDate(e.EmploymentDate), quote(e.Department))
	}

	fmt.Fprint(bw, "\n-- Appointments\n")
	for _, a := range d.Appointments {
		fmt.Fprintf(bw, "INSERT INTO Appointments (AppointmentID, PatientID, DoctorID, ServiceID, AppointmentDateTime, Status) VALUES (%d, %d, %d, %d, %s, %s);\n",
			a.ID, a.PatientID, a.DoctorID, a.ServiceID, quote(a.DateTime.Format(dateTimeLayout)), quote(a.Status))
	}

	fmt.Fprint(bw, "\n-- Billing\n")
	for _, b := range d.Billing {
		fmt.Fprintf(bw, "INSERT INTO Billing (BillingID, AppointmentID, TotalAmount, AmountPaid, PaymentDate, PaymentMethod) VALUES (%d, %d, %d, %d, %s, %s);\n",
			b.ID, b.AppointmentID, b.TotalAmount, b.AmountPaid, quoteDate(b.PaymentDate), quote(b.PaymentMethod))
	}

	fmt.Fprint(bw, "\n-- Feedback\n")
	for _, f := range d.Feedback {
		fmt.Fprintf(bw, "INSERT INTO Feedback (FeedbackID, PatientID, AppointmentID, Rating, Comments, FeedbackDate) VALUES (%d, %d, %d, %d, %s, %s);\n",
			f.ID, f.PatientID, f.AppointmentID, f.Rating, quote(f.Comments), quoteDate(f.FeedbackDate))
	}

	fmt.Fprint(bw, "\n-- Referrals\n")
	for _, r := range d.Referrals {
		fmt.Fprintf(bw, "INSERT INTO Referrals (ReferralID, PatientID, ReferringPhysician, ReferralDate, Notes) VALUES (%d, %d, %s, %s, %s);\n",
			r.ID, r.PatientID, quote(r.ReferringPhysician), quoteDate(r.ReferralDate), quote(r.Notes))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

// WriteFile writes the script to path, replacing any existing file.
func (d *Dataset) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := d.WriteSQL(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
