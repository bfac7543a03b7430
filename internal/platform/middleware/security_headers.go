package middleware

import (
	"github.com/labstack/echo/v4"
)

// ChartAssetHosts are the origins the dashboard page loads its scripts and
// styles from.
var ChartAssetHosts = []string{"https://go-echarts.github.io", "https://cdn.jsdelivr.net"}

// SecurityHeaders sets the response headers for the dashboard. The page may
// load scripts and styles from ChartAssetHosts and talk back to its own
// origin over fetch and WebSocket; nothing may frame it.
func SecurityHeaders() echo.MiddlewareFunc {
	assets := ""
	for _, h := range ChartAssetHosts {
		assets += " " + h
	}
	csp := "default-src 'self'" +
		"; script-src 'self' 'unsafe-inline'" + assets +
		"; style-src 'self' 'unsafe-inline'" + assets +
		"; img-src 'self' data:" +
		"; connect-src 'self' ws: wss:" +
		"; frame-ancestors 'none'"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "0")
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "same-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			return next(c)
		}
	}
}
