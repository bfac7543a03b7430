package clinic

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/healthcare/clinic-dashboard/internal/platform/db"
	"github.com/healthcare/clinic-dashboard/internal/platform/reporting"
)

// repoSQL serves the database/sql drivers. Columns are scanned into any and
// converted, since drivers differ in how they return DATE and DECIMAL.
type repoSQL struct {
	driver db.Driver
	db     *sql.DB
}

func NewRepoSQL(driver db.Driver, sqlDB *sql.DB) Repository {
	return &repoSQL{driver: driver, db: sqlDB}
}

// scanAll runs query id and hands each row's values to fn.
func (r *repoSQL) scanAll(ctx context.Context, id string, fn func(values []any) error) error {
	q, err := reporting.SQLFor(id, r.driver)
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query %s: %w", id, err)
	}
	defer rows.Close()

	cols := len(reporting.FindQuery(id).Columns)
	values := make([]any, cols)
	dest := make([]any, cols)
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan %s: %w", id, err)
		}
		if err := fn(values); err != nil {
			return fmt.Errorf("convert %s: %w", id, err)
		}
	}
	return rows.Err()
}

func (r *repoSQL) ServiceCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.scanAll(ctx, reporting.ServiceCategories, func(v []any) error {
		categories = append(categories, db.AsString(v[0]))
		return nil
	})
	return categories, err
}

func (r *repoSQL) PatientDemographics(ctx context.Context) ([]PatientDemographic, error) {
	var patients []PatientDemographic
	err := r.scanAll(ctx, reporting.PatientDemographics, func(v []any) error {
		age, err := db.AsFloat(v[1])
		if err != nil {
			return err
		}
		patients = append(patients, PatientDemographic{Gender: db.AsString(v[0]), Age: int(age)})
		return nil
	})
	return patients, err
}

func (r *repoSQL) AppointmentStatuses(ctx context.Context) ([]AppointmentRecord, error) {
	var appointments []AppointmentRecord
	err := r.scanAll(ctx, reporting.AppointmentStatus, func(v []any) error {
		date, err := db.AsTime(v[0])
		if err != nil {
			return err
		}
		appointments = append(appointments, AppointmentRecord{
			Date:     Day(date),
			Status:   db.AsString(v[1]),
			Category: db.AsString(v[2]),
		})
		return nil
	})
	return appointments, err
}

func (r *repoSQL) Revenue(ctx context.Context) ([]RevenueRecord, error) {
	var revenue []RevenueRecord
	err := r.scanAll(ctx, reporting.Revenue, func(v []any) error {
		amount, err := db.AsFloat(v[1])
		if err != nil {
			return err
		}
		date, err := db.AsTime(v[0])
		if err != nil {
			return err
		}
		revenue = append(revenue, RevenueRecord{
			PaymentDate: Day(date),
			Amount:      amount,
			Category:    db.AsString(v[2]),
		})
		return nil
	})
	return revenue, err
}
