package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/identity"
	"github.com/Skotchmaster/market/services/market/internal/service"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrEmptyCart, http.StatusConflict},
}

// fail logs the outcome and turns a service error into an HTTP error.
// Anything outside the service taxonomy is an infrastructure fault.
func fail(l *slog.Logger, event string, err error) error {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			l.Warn(event, "status", m.status, "error", err)
			return echo.NewHTTPError(m.status, message(err, m.err))
		}
	}
	l.Error(event, "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func message(err, sentinel error) string {
	if err == sentinel {
		return sentinel.Error()
	}
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

func badRequest(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid request: "+err.Error())
}

func caller(c echo.Context, l *slog.Logger, event string) (identity.Identity, error) {
	id, err := identity.From(c)
	if err != nil {
		l.Warn(event, "status", http.StatusUnauthorized, "error", err)
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

func pathID(c echo.Context, l *slog.Logger, event, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, badRequest(l, event, err)
	}
	return id, nil
}
