package authmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/authclient"
	"github.com/Skotchmaster/market/pkg/identity"
	"github.com/Skotchmaster/market/pkg/logging"
	"github.com/Skotchmaster/market/pkg/tokens"
)

// Refresher exchanges an expired access token for a new pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken, accessToken string) (*authclient.Session, error)
}

type Middleware struct {
	secret    []byte
	refresher Refresher
}

// New builds the auth middleware. refresher may be nil, expired cookies are
// then rejected instead of refreshed.
func New(secret []byte, refresher Refresher) *Middleware {
	return &Middleware{secret: secret, refresher: refresher}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := m.authenticate(c)
		if err != nil {
			return err
		}
		identity.Set(c, id)
		return next(c)
	}
}

// RequireRole authenticates the caller and rejects roles outside the list.
func (m *Middleware) RequireRole(roles ...identity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return m.RequireAuth(func(c echo.Context) error {
			id, err := identity.From(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if !id.Role.In(roles...) {
				logging.FromContext(c.Request().Context()).Warn("role_denied", "role", id.Role.String())
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		})
	}
}

func (m *Middleware) authenticate(c echo.Context) (identity.Identity, error) {
	if raw, ok := bearer(c.Request()); ok {
		claims, err := tokens.AccessClaimsFromToken(raw, m.secret)
		if err != nil {
			return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		return identityFromClaims(claims)
	}

	access, err := c.Cookie(accessCookie)
	if err != nil || access.Value == "" {
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	claims, err := tokens.AccessClaimsFromToken(access.Value, m.secret)
	if err == nil {
		return identityFromClaims(claims)
	}
	if !errors.Is(err, jwt.ErrTokenExpired) || m.refresher == nil {
		clearAuthCookies(c)
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	refresh, rErr := c.Cookie(refreshCookie)
	if rErr != nil || refresh.Value == "" {
		clearAuthCookies(c)
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	l := logging.FromContext(c.Request().Context())
	sess, err := m.refresher.Refresh(c.Request().Context(), refresh.Value, access.Value)
	if err != nil {
		l.Warn("token_refresh_failed", "err", err, "rejected", errors.Is(err, authclient.ErrRejected))
		clearAuthCookies(c)
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
	}

	claims, err = tokens.AccessClaimsFromToken(sess.AccessToken, m.secret)
	if err != nil {
		clearAuthCookies(c)
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
	}
	id, err := identityFromClaims(claims)
	if err != nil {
		clearAuthCookies(c)
		return identity.Identity{}, err
	}
	// The session the auth service reports must be the one the token carries.
	if id != sess.Identity() {
		l.Warn("token_refresh_mismatch", "token_role", id.Role.String(), "session_role", sess.Role.String())
		clearAuthCookies(c)
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "refresh identity mismatch")
	}

	c.SetCookie(newCookie(accessCookie, sess.AccessToken, sess.AccessExp))
	c.SetCookie(newCookie(refreshCookie, sess.RefreshToken, sess.RefreshExp))
	l.Info("token_refreshed", "user_id", id.UserID.String(), "role", id.Role.String())
	return id, nil
}

func identityFromClaims(claims *tokens.AccessClaims) (identity.Identity, error) {
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return identity.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid role")
	}
	return identity.Identity{UserID: uid, Role: role}, nil
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return "", false
	}
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(expiredCookie(accessCookie))
	c.SetCookie(expiredCookie(refreshCookie))
}
