package dashboard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Figure ids in page order.
const (
	FigAppointmentsOverTime = "appointments-over-time"
	FigRevenueOverTime      = "revenue-over-time"
	FigAgeDistribution      = "age-distribution"
	FigGenderRatio          = "gender-ratio"
	FigAppointmentStatus    = "appointment-status"
	FigRevenueGrowth        = "revenue-growth"
	FigYTDRevenue           = "ytd-revenue"
)

// Figure is one rendered chart. Option is the ECharts option object.
type Figure struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Option json.RawMessage `json:"option"`
}

type chart interface {
	Validate()
	JSON() map[string]interface{}
}

func render(id, title string, c chart) (Figure, error) {
	c.Validate()
	option, err := json.Marshal(c.JSON())
	if err != nil {
		return Figure{}, fmt.Errorf("render %s: %w", id, err)
	}
	return Figure{ID: id, Title: title, Option: option}, nil
}

const dateLayout = "2006-01-02"

func rectOptions(title, xName, yName, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	}
}

// ---------------------------------------------------------------------------
// Static figures
// ---------------------------------------------------------------------------

func ageDistributionFigure(bins []AgeBin) (Figure, error) {
	const title = "Patient Age Distribution"
	bar := charts.NewBar()
	bar.SetGlobalOptions(rectOptions(title, "Age", "count", "axis")...)

	labels := make([]string, len(bins))
	data := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.1f-%.1f", b.Start, b.End)
		data[i] = opts.BarData{Value: b.Count}
	}
	bar.SetXAxis(labels).AddSeries("Patients", data, charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "1%"}))
	return render(FigAgeDistribution, title, bar)
}

func genderRatioFigure(shares []GenderShare) (Figure, error) {
	const title = "Gender Ratio"
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
	)

	data := make([]opts.PieData, len(shares))
	for i, s := range shares {
		data[i] = opts.PieData{Name: s.Gender, Value: s.Count}
	}
	pie.AddSeries("Gender", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}))
	return render(FigGenderRatio, title, pie)
}

// growthLabel is the bar label of one year; the earliest year gets a blank
// label.
func growthLabel(y YearRevenue) string {
	if y.Growth == nil {
		return " "
	}
	return fmt.Sprintf("%.2f%%", *y.Growth)
}

func revenueGrowthFigure(years []YearRevenue) (Figure, error) {
	const title = "Annual Revenue with Year-over-Year Growth"
	bar := charts.NewBar()
	bar.SetGlobalOptions(rectOptions(title, "Year", "Total Revenue", "axis")...)

	labels := make([]string, len(years))
	data := make([]opts.BarData, len(years))
	for i, y := range years {
		labels[i] = fmt.Sprint(y.Year)
		data[i] = opts.BarData{Name: growthLabel(y), Value: y.Total}
	}
	bar.SetXAxis(labels).AddSeries("TotalRevenue", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{b}"}))
	return render(FigRevenueGrowth, title, bar)
}

func ytdRevenueFigure(years []YearRevenue) (Figure, error) {
	const title = "Year-to-Date Revenue Comparison"
	bar := charts.NewBar()
	bar.SetGlobalOptions(rectOptions(title, "Year", "Cumulative Revenue", "axis")...)

	labels := make([]string, len(years))
	data := make([]opts.BarData, len(years))
	for i, y := range years {
		labels[i] = fmt.Sprint(y.Year)
		data[i] = opts.BarData{Value: y.Total}
	}
	bar.SetXAxis(labels).AddSeries("CumulativeRevenue", data)
	return render(FigYTDRevenue, title, bar)
}

// ---------------------------------------------------------------------------
// Filtered figures
// ---------------------------------------------------------------------------

func appointmentsFigure(counts []DailyCount) (Figure, error) {
	const title = "Total Appointments Over Time"
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(rectOptions(title, "AppointmentDate", "Count", "item")...)

	labels := make([]string, len(counts))
	points := make([]opts.ScatterData, len(counts))
	for i, c := range counts {
		labels[i] = c.Date.Format(dateLayout)
		points[i] = opts.ScatterData{Value: c.Count, SymbolSize: 8}
	}
	scatter.SetXAxis(labels).AddSeries("Count", points)

	if trend, ok := FitTrend(counts); ok {
		line := charts.NewLine()
		fitted := make([]opts.LineData, len(counts))
		for i, c := range counts {
			fitted[i] = opts.LineData{Value: trend.At(c.Date)}
		}
		line.SetXAxis(labels).AddSeries("OLS trend", fitted)
		scatter.Overlap(line)
	}
	return render(FigAppointmentsOverTime, title, scatter)
}

func revenueFigure(totals []DailyTotal) (Figure, error) {
	const title = "Revenue Over Time"
	line := charts.NewLine()
	line.SetGlobalOptions(rectOptions(title, "PaymentDate", "TotalAmount", "axis")...)

	labels := make([]string, len(totals))
	data := make([]opts.LineData, len(totals))
	for i, t := range totals {
		labels[i] = t.Date.Format(dateLayout)
		data[i] = opts.LineData{Value: t.Total}
	}
	line.SetXAxis(labels).AddSeries("TotalAmount", data)
	return render(FigRevenueOverTime, title, line)
}

func statusFigure(counts []StatusCount) (Figure, error) {
	const title = "Appointment Status Distribution"
	bar := charts.NewBar()
	bar.SetGlobalOptions(rectOptions(title, "Status", "Count", "axis")...)

	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Status
		data[i] = opts.BarData{Value: c.Count}
	}
	bar.SetXAxis(labels).AddSeries("Count", data)
	return render(FigAppointmentStatus, title, bar)
}

// formatDay renders t the way the date controls expect it.
func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
