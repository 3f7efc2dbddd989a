package metricsmw

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/metrics"
)

// Requests records count and latency per route template. It sits inside the
// request logger, so errors are already rendered when it reads the status.
func Requests(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
