package clinic

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// LoadSnapshot runs the four extraction queries in order. The first failure
// aborts the load.
func (s *Service) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	categories, err := s.repo.ServiceCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load service categories: %w", err)
	}
	patients, err := s.repo.PatientDemographics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patient demographics: %w", err)
	}
	appointments, err := s.repo.AppointmentStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointment statuses: %w", err)
	}
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("load revenue: %w", err)
	}

	return &Snapshot{
		Categories:   categories,
		Patients:     patients,
		Appointments: appointments,
		Revenue:      revenue,
		LoadedAt:     s.now(),
	}, nil
}
