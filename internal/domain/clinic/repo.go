package clinic

import (
	"context"

	"github.com/healthcare/clinic-dashboard/internal/platform/db"
)

// Repository runs the read-only extraction queries. Each call acquires and
// releases its own connection.
type Repository interface {
	ServiceCategories(ctx context.Context) ([]string, error)
	PatientDemographics(ctx context.Context) ([]PatientDemographic, error)
	AppointmentStatuses(ctx context.Context) ([]AppointmentRecord, error)
	Revenue(ctx context.Context) ([]RevenueRecord, error)
}

// NewRepository picks the implementation matching the database driver.
func NewRepository(database *db.Database) Repository {
	if database.Driver() == db.Postgres {
		return NewRepoPG(database.Pool())
	}
	return NewRepoSQL(database.Driver(), database.SQL())
}
