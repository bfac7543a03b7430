package dashboard

import (
	"fmt"
	"time"

	"github.com/healthcare/clinic-dashboard/internal/domain/clinic"
)

// State is everything the dashboard computes at startup. It is read-only
// once NewState returns and is shared by all requests without locking.
type State struct {
	Snapshot *clinic.Snapshot
	Static   []Figure
	First    time.Time
	Last     time.Time
	HasDates bool
}

// NewState builds the four static figures from snap. today fixes the
// year-to-date cutoff.
func NewState(snap *clinic.Snapshot, today time.Time) (*State, error) {
	static, err := StaticFigures(snap, today)
	if err != nil {
		return nil, err
	}
	first, last, ok := snap.DateBounds()
	return &State{
		Snapshot: snap,
		Static:   static,
		First:    first,
		Last:     last,
		HasDates: ok,
	}, nil
}

// StaticFigures renders age-distribution, gender-ratio, revenue-growth and
// ytd-revenue in that order.
func StaticFigures(snap *clinic.Snapshot, today time.Time) ([]Figure, error) {
	builders := []func() (Figure, error){
		func() (Figure, error) { return ageDistributionFigure(AgeHistogram(snap.Patients, AgeBins)) },
		func() (Figure, error) { return genderRatioFigure(GenderShares(snap.Patients)) },
		func() (Figure, error) { return revenueGrowthFigure(AnnualRevenue(snap.Revenue)) },
		func() (Figure, error) { return ytdRevenueFigure(YTDRevenue(snap.Revenue, today)) },
	}

	figures := make([]Figure, 0, len(builders))
	for _, build := range builders {
		fig, err := build()
		if err != nil {
			return nil, fmt.Errorf("build static figures: %w", err)
		}
		figures = append(figures, fig)
	}
	return figures, nil
}

// DefaultFilter spans every appointment day and selects every category.
func (s *State) DefaultFilter() Filter {
	categories := make([]string, len(s.Snapshot.Categories))
	copy(categories, s.Snapshot.Categories)
	return Filter{Start: s.First, End: s.Last, Categories: categories}
}

// Update recomputes the filtered figures. It returns appointments-over-time,
// revenue-over-time and appointment-status in that order.
func Update(s *State, f Filter) ([]Figure, error) {
	appointments := FilterAppointments(s.Snapshot.Appointments, f)

	scatter, err := appointmentsFigure(DailyCounts(appointments))
	if err != nil {
		return nil, err
	}
	line, err := revenueFigure(DailyRevenue(s.Snapshot.Revenue, f))
	if err != nil {
		return nil, err
	}
	bar, err := statusFigure(StatusCounts(appointments))
	if err != nil {
		return nil, err
	}
	return []Figure{scatter, line, bar}, nil
}
