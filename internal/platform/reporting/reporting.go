package reporting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthcare/clinic-dashboard/internal/platform/db"
)

// Query IDs of the dashboard's extraction queries.
const (
	ServiceCategories   = "service-categories"
	PatientDemographics = "patient-demographics"
	AppointmentStatus   = "appointment-status"
	Revenue             = "revenue"
)

// QueryDefinition is a read-only extraction query with one SQL text per
// dialect. Every dialect returns the same columns in the same order.
type QueryDefinition struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Columns     []string             `json:"columns"`
	SQL         map[db.Driver]string `json:"-"`
}

// QueryReport holds the rows of an executed query.
type QueryReport struct {
	QueryID     string                   `json:"query_id"`
	QueryName   string                   `json:"query_name"`
	Driver      db.Driver                `json:"driver"`
	GeneratedAt time.Time                `json:"generated_at"`
	Results     []map[string]interface{} `json:"results"`
}

const patientAgeSQLServer = `SELECT
    Gender,
    DATEDIFF(YEAR, DateOfBirth, GETDATE())
        - CASE WHEN DATEADD(YEAR, DATEDIFF(YEAR, DateOfBirth, GETDATE()), DateOfBirth) > CAST(GETDATE() AS DATE)
               THEN 1 ELSE 0 END AS Age
FROM Patients`

const patientAgeSQLite = `SELECT
    Gender,
    CAST(strftime('%Y', 'now') AS INTEGER) - CAST(strftime('%Y', DateOfBirth) AS INTEGER)
        - (strftime('%m-%d', 'now') < strftime('%m-%d', DateOfBirth)) AS Age
FROM Patients`

const appointmentJoin = `
FROM Appointments A
JOIN Services S ON A.ServiceID = S.ServiceID`

const revenueJoin = `
FROM Billing B
JOIN Appointments A ON B.AppointmentID = A.AppointmentID
JOIN Services S ON A.ServiceID = S.ServiceID`

// sameSQL repeats one statement for every dialect.
func sameSQL(sql string) map[db.Driver]string {
	return map[db.Driver]string{db.SQLServer: sql, db.Postgres: sql, db.MySQL: sql, db.SQLite: sql}
}

// PredefinedQueries is the list of extraction queries the dashboard runs at startup.
var PredefinedQueries = []QueryDefinition{
	{
		ID:          ServiceCategories,
		Name:        "Service Categories",
		Description: "Distinct service categories, ordered by name",
		Columns:     []string{"ServiceCategory"},
		SQL:         sameSQL(`SELECT DISTINCT ServiceCategory FROM Services ORDER BY ServiceCategory`),
	},
	{
		ID:          PatientDemographics,
		Name:        "Patient Demographics",
		Description: "Gender and age in completed years of every patient",
		Columns:     []string{"Gender", "Age"},
		SQL: map[db.Driver]string{
			db.SQLServer: patientAgeSQLServer,
			db.Postgres:  `SELECT Gender, DATE_PART('year', AGE(CURRENT_DATE, DateOfBirth))::int AS Age FROM Patients`,
			db.MySQL:     `SELECT Gender, TIMESTAMPDIFF(YEAR, DateOfBirth, CURDATE()) AS Age FROM Patients`,
			db.SQLite:    patientAgeSQLite,
		},
	},
	{
		ID:          AppointmentStatus,
		Name:        "Appointment Status",
		Description: "Day, status and service category of every appointment",
		Columns:     []string{"AppointmentDate", "Status", "ServiceCategory"},
		SQL: map[db.Driver]string{
			db.SQLServer: `SELECT CAST(A.AppointmentDateTime AS DATE) AS AppointmentDate, A.Status, S.ServiceCategory` + appointmentJoin,
			db.Postgres:  `SELECT CAST(A.AppointmentDateTime AS DATE) AS AppointmentDate, A.Status, S.ServiceCategory` + appointmentJoin,
			db.MySQL:     `SELECT CAST(A.AppointmentDateTime AS DATE) AS AppointmentDate, A.Status, S.ServiceCategory` + appointmentJoin,
			db.SQLite:    `SELECT date(A.AppointmentDateTime) AS AppointmentDate, A.Status, S.ServiceCategory` + appointmentJoin,
		},
	},
	{
		ID:          Revenue,
		Name:        "Revenue",
		Description: "Payment date, billed amount and service category of every billing row",
		Columns:     []string{"PaymentDate", "TotalAmount", "ServiceCategory"},
		SQL: map[db.Driver]string{
			db.SQLServer: `SELECT B.PaymentDate, B.TotalAmount, S.ServiceCategory` + revenueJoin,
			db.Postgres:  `SELECT B.PaymentDate, CAST(B.TotalAmount AS DOUBLE PRECISION) AS TotalAmount, S.ServiceCategory` + revenueJoin,
			db.MySQL:     `SELECT B.PaymentDate, B.TotalAmount, S.ServiceCategory` + revenueJoin,
			db.SQLite:    `SELECT date(B.PaymentDate) AS PaymentDate, B.TotalAmount, S.ServiceCategory` + revenueJoin,
		},
	},
}

// FindQuery looks up a query by ID.
func FindQuery(id string) *QueryDefinition {
	for i := range PredefinedQueries {
		if PredefinedQueries[i].ID == id {
			return &PredefinedQueries[i]
		}
	}
	return nil
}

// SQLFor returns the statement of query id for driver.
func SQLFor(id string, driver db.Driver) (string, error) {
	q := FindQuery(id)
	if q == nil {
		return "", fmt.Errorf("unknown query %q", id)
	}
	sql, ok := q.SQL[driver]
	if !ok {
		return "", fmt.Errorf("query %q has no %s dialect", id, driver)
	}
	return sql, nil
}

// Handler provides HTTP handlers for the reporting API.
type Handler struct {
	db *db.Database
}

func NewHandler(database *db.Database) *Handler {
	return &Handler{db: database}
}

// RegisterRoutes registers the reporting API routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	reportGroup := api.Group("/reports")
	reportGroup.GET("/queries", h.ListQueries)
	reportGroup.GET("/queries/:id/run", h.RunQuery)
}

// ListQueries returns all available query definitions.
func (h *Handler) ListQueries(c echo.Context) error {
	return c.JSON(http.StatusOK, PredefinedQueries)
}

// RunQuery executes a query in the configured dialect and returns its rows.
func (h *Handler) RunQuery(c echo.Context) error {
	query := FindQuery(c.Param("id"))
	if query == nil {
		return echo.NewHTTPError(http.StatusNotFound, "query not found")
	}

	sql, err := SQLFor(query.ID, h.db.Driver())
	if err != nil {
		return echo.NewHTTPError(http.StatusNotImplemented, err.Error())
	}

	results, err := executeSQL(c.Request().Context(), h.db, sql, query.Columns)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("query failed: %v", err))
	}

	return c.JSON(http.StatusOK, QueryReport{
		QueryID:     query.ID,
		QueryName:   query.Name,
		Driver:      h.db.Driver(),
		GeneratedAt: time.Now(),
		Results:     results,
	})
}

// executeSQL runs sql and returns each row as a map keyed by columns.
func executeSQL(ctx context.Context, database *db.Database, sql string, columns []string) ([]map[string]interface{}, error) {
	rows, err := database.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
