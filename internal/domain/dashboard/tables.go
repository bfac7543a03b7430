// Package dashboard turns the clinic snapshot into chart-ready tables and
// ECharts figures, and serves them over HTTP and WebSocket.
package dashboard

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/healthcare/clinic-dashboard/internal/domain/clinic"
)

// AgeBins is the number of equal-width buckets of the age histogram.
const AgeBins = 20

// ---------------------------------------------------------------------------
// Static tables
// ---------------------------------------------------------------------------

// AgeBin is one histogram bucket covering [Start, End).
type AgeBin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// AgeHistogram buckets patient ages into n equal-width bins between the
// youngest and oldest age. The oldest age falls into the last bin.
func AgeHistogram(patients []clinic.PatientDemographic, n int) []AgeBin {
	if len(patients) == 0 || n < 1 {
		return nil
	}

	ages := make([]float64, len(patients))
	for i, p := range patients {
		ages[i] = float64(p.Age)
	}
	sort.Float64s(ages)

	lo, hi := ages[0], ages[len(ages)-1]
	if lo == hi {
		hi = lo + 1
	}
	edges := floats.Span(make([]float64, n+1), lo, hi)

	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, ages, nil)

	bins := make([]AgeBin, n)
	for i := range bins {
		bins[i] = AgeBin{Start: edges[i], End: edges[i+1], Count: int(counts[i])}
	}
	return bins
}

// GenderShare is one slice of the gender pie.
type GenderShare struct {
	Gender string  `json:"gender"`
	Count  int     `json:"count"`
	Share  float64 `json:"share"`
}

// GenderShares counts patients per gender value, largest group first.
func GenderShares(patients []clinic.PatientDemographic) []GenderShare {
	counts := map[string]int{}
	for _, p := range patients {
		counts[p.Gender]++
	}

	shares := make([]GenderShare, 0, len(counts))
	for g, c := range counts {
		shares = append(shares, GenderShare{
			Gender: g,
			Count:  c,
			Share:  float64(c) / float64(len(patients)),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Gender < shares[j].Gender
	})
	return shares
}

// YearRevenue is the revenue total of one payment year. Growth is the percent
// change against the previous listed year; nil for the earliest year or when
// the previous total is zero.
type YearRevenue struct {
	Year   int      `json:"year"`
	Total  float64  `json:"total"`
	Growth *float64 `json:"growth,omitempty"`
}

func totalsByYear(records []clinic.RevenueRecord, keep func(clinic.RevenueRecord) bool) []YearRevenue {
	sums := map[int]float64{}
	for _, r := range records {
		if keep != nil && !keep(r) {
			continue
		}
		sums[r.PaymentDate.Year()] += r.Amount
	}

	years := make([]YearRevenue, 0, len(sums))
	for y, total := range sums {
		years = append(years, YearRevenue{Year: y, Total: total})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years
}

// AnnualRevenue sums revenue per payment year in ascending order with the
// year-over-year growth of each year.
func AnnualRevenue(records []clinic.RevenueRecord) []YearRevenue {
	years := totalsByYear(records, nil)
	for i := 1; i < len(years); i++ {
		prev := years[i-1].Total
		if prev == 0 {
			continue
		}
		g := (years[i].Total - prev) / prev * 100
		years[i].Growth = &g
	}
	return years
}

// YTDRevenue sums, per year, the revenue paid on or before today's
// day-of-year. Years without such payments are omitted.
func YTDRevenue(records []clinic.RevenueRecord, today time.Time) []YearRevenue {
	cutoff := today.YearDay()
	return totalsByYear(records, func(r clinic.RevenueRecord) bool {
		return r.PaymentDate.YearDay() <= cutoff
	})
}

// ---------------------------------------------------------------------------
// Filtered tables
// ---------------------------------------------------------------------------

// Filter selects appointments and revenue by day and service category. Start
// and End are inclusive calendar days. A nil or empty Categories selects
// nothing.
type Filter struct {
	Start      time.Time `json:"start_date"`
	End        time.Time `json:"end_date"`
	Categories []string  `json:"categories"`
}

type matcher struct {
	start, end time.Time
	categories map[string]struct{}
}

func (f Filter) matcher() matcher {
	m := matcher{
		start:      clinic.Day(f.Start),
		end:        clinic.Day(f.End),
		categories: make(map[string]struct{}, len(f.Categories)),
	}
	for _, c := range f.Categories {
		m.categories[c] = struct{}{}
	}
	return m
}

func (m matcher) match(t time.Time, category string) bool {
	day := clinic.Day(t)
	if day.Before(m.start) || day.After(m.end) {
		return false
	}
	_, ok := m.categories[category]
	return ok
}

// FilterAppointments returns the appointments inside f.
func FilterAppointments(records []clinic.AppointmentRecord, f Filter) []clinic.AppointmentRecord {
	m := f.matcher()
	var out []clinic.AppointmentRecord
	for _, a := range records {
		if m.match(a.Date, a.Category) {
			out = append(out, a)
		}
	}
	return out
}

// DailyCount is the number of appointments on one day.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// DailyCounts counts appointments per day, ascending by day.
func DailyCounts(records []clinic.AppointmentRecord) []DailyCount {
	counts := map[time.Time]int{}
	for _, a := range records {
		counts[clinic.Day(a.Date)]++
	}

	out := make([]DailyCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DailyCount{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// StatusCount is the number of appointments with one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusCounts counts appointments per status, most frequent first and ties
// by name.
func StatusCounts(records []clinic.AppointmentRecord) []StatusCount {
	counts := map[string]int{}
	for _, a := range records {
		counts[a.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for s, c := range counts {
		out = append(out, StatusCount{Status: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// DailyTotal is the revenue paid on one day.
type DailyTotal struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// DailyRevenue sums the revenue inside f per payment day, ascending by day.
func DailyRevenue(records []clinic.RevenueRecord, f Filter) []DailyTotal {
	m := f.matcher()
	sums := map[time.Time]float64{}
	for _, r := range records {
		if m.match(r.PaymentDate, r.Category) {
			sums[clinic.Day(r.PaymentDate)] += r.Amount
		}
	}

	out := make([]DailyTotal, 0, len(sums))
	for d, total := range sums {
		out = append(out, DailyTotal{Date: d, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Trend is an ordinary least squares fit of count against day number.
type Trend struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

func dayNumber(t time.Time) float64 {
	return float64(clinic.Day(t).Unix()) / 86400
}

// At evaluates the fitted line on day t.
func (tr Trend) At(t time.Time) float64 {
	return tr.Intercept + tr.Slope*dayNumber(t)
}

// FitTrend fits the daily counts. It reports false when fewer than two
// distinct days are present.
func FitTrend(counts []DailyCount) (Trend, bool) {
	if len(counts) < 2 {
		return Trend{}, false
	}
	xs := make([]float64, len(counts))
	ys := make([]float64, len(counts))
	for i, c := range counts {
		xs[i] = dayNumber(c.Date)
		ys[i] = float64(c.Count)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Trend{Intercept: alpha, Slope: beta}, true
}
