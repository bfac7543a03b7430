package clinic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthcare/clinic-dashboard/internal/platform/db"
	"github.com/healthcare/clinic-dashboard/internal/platform/reporting"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type repoPG struct{ pool queryable }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) query(ctx context.Context, id string) (pgx.Rows, error) {
	sql, err := reporting.SQLFor(id, db.Postgres)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", id, err)
	}
	return rows, nil
}

func (r *repoPG) ServiceCategories(ctx context.Context) ([]string, error) {
	rows, err := r.query(ctx, reporting.ServiceCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repoPG) PatientDemographics(ctx context.Context) ([]PatientDemographic, error) {
	rows, err := r.query(ctx, reporting.PatientDemographics)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []PatientDemographic
	for rows.Next() {
		var p PatientDemographic
		if err := rows.Scan(&p.Gender, &p.Age); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *repoPG) AppointmentStatuses(ctx context.Context) ([]AppointmentRecord, error) {
	rows, err := r.query(ctx, reporting.AppointmentStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []AppointmentRecord
	for rows.Next() {
		var a AppointmentRecord
		if err := rows.Scan(&a.Date, &a.Status, &a.Category); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.Date = Day(a.Date)
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *repoPG) Revenue(ctx context.Context) ([]RevenueRecord, error) {
	rows, err := r.query(ctx, reporting.Revenue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revenue []RevenueRecord
	for rows.Next() {
		var rec RevenueRecord
		if err := rows.Scan(&rec.PaymentDate, &rec.Amount, &rec.Category); err != nil {
			return nil, fmt.Errorf("scan billing: %w", err)
		}
		rec.PaymentDate = Day(rec.PaymentDate)
		revenue = append(revenue, rec)
	}
	return revenue, rows.Err()
}
