package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthcare/clinic-dashboard/internal/platform/middleware"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// PageTitle is the heading and document title of the dashboard page.
const PageTitle = "Healthcare App Dashboard"

// staticMaxAge is the Cache-Control max-age of the static figures. They only
// change when the process restarts.
const staticMaxAge = 300

var queryDateLayouts = []string{dateLayout, "2006-01-02T15:04:05", time.RFC3339}

// Handler serves the dashboard page, its JSON API and the WebSocket callback.
type Handler struct {
	state *State
}

func NewHandler(state *State) *Handler {
	return &Handler{state: state}
}

// RegisterRoutes mounts the page on e and the JSON endpoints under api.
func (h *Handler) RegisterRoutes(e *echo.Echo, api *echo.Group) {
	e.GET("/", h.Page)

	g := api.Group("/dashboard")
	g.GET("/controls", h.Controls)
	g.GET("/static", h.Static, middleware.ETag(staticMaxAge))
	g.GET("/figures", h.Figures)
}

// Controls describes the filter widgets.
type Controls struct {
	Categories []string `json:"categories"`
	MinDate    string   `json:"min_date"`
	MaxDate    string   `json:"max_date"`
}

// FiguresResponse is the reply of the reactive callback.
type FiguresResponse struct {
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Categories []string `json:"categories"`
	Figures    []Figure `json:"figures"`
}

func (h *Handler) controls() Controls {
	categories := h.state.Snapshot.Categories
	if categories == nil {
		categories = []string{}
	}
	return Controls{
		Categories: categories,
		MinDate:    formatDay(h.state.First),
		MaxDate:    formatDay(h.state.Last),
	}
}

type pageData struct {
	Title    string
	Controls Controls
	Panels   [][]string
}

// panelRows is the two-column grid of figure ids.
var panelRows = [][]string{
	{FigAppointmentsOverTime, FigRevenueOverTime},
	{FigAgeDistribution, FigGenderRatio},
	{FigAppointmentStatus, FigRevenueGrowth},
	{FigYTDRevenue},
}

// Page renders the dashboard shell. Figures are fetched by the page script.
func (h *Handler) Page(c echo.Context) error {
	var buf strings.Builder
	data := pageData{Title: PageTitle, Controls: h.controls(), Panels: panelRows}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render dashboard page: %w", err)
	}
	return c.HTML(http.StatusOK, buf.String())
}

func (h *Handler) Controls(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controls())
}

// Static returns the four figures computed at startup.
func (h *Handler) Static(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state.Static)
}

// Figures runs the reactive callback for the filter in the query string.
// Missing dates default to the data bounds. Without any category parameter
// every category is selected; category= selects none.
func (h *Handler) Figures(c echo.Context) error {
	req := filterRequest{
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
	}
	if values, ok := c.QueryParams()["category"]; ok {
		selected := []string{}
		for _, v := range values {
			if v != "" {
				selected = append(selected, v)
			}
		}
		req.Categories = &selected
	}

	f, err := h.resolve(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.update(f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Respond answers one WebSocket filter message with the three figures.
func (h *Handler) Respond(ctx context.Context, payload []byte) ([]byte, error) {
	var req filterRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid filter message: %w", err)
	}
	f, err := h.resolve(req)
	if err != nil {
		return nil, err
	}
	resp, err := h.update(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}

// filterRequest is the wire form of a Filter. Nil Categories selects every
// category.
type filterRequest struct {
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Categories *[]string `json:"categories"`
}

func (h *Handler) resolve(req filterRequest) (Filter, error) {
	f := h.state.DefaultFilter()
	if req.StartDate != "" {
		t, err := parseDay(req.StartDate)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid start_date: %w", err)
		}
		f.Start = t
	}
	if req.EndDate != "" {
		t, err := parseDay(req.EndDate)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid end_date: %w", err)
		}
		f.End = t
	}
	if req.Categories != nil {
		f.Categories = *req.Categories
	}
	return f, nil
}

func (h *Handler) update(f Filter) (FiguresResponse, error) {
	figures, err := Update(h.state, f)
	if err != nil {
		return FiguresResponse{}, err
	}
	categories := f.Categories
	if categories == nil {
		categories = []string{}
	}
	return FiguresResponse{
		StartDate:  formatDay(f.Start),
		EndDate:    formatDay(f.End),
		Categories: categories,
		Figures:    figures,
	}, nil
}

func parseDay(s string) (time.Time, error) {
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", s)
}
