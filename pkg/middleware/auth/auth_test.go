package authmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/market/pkg/authclient"
	"github.com/Skotchmaster/market/pkg/identity"
	"github.com/Skotchmaster/market/pkg/tokens"
)

var secret = []byte("test-secret")

type fakeRefresher struct {
	sess  *authclient.Session
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken, accessToken string) (*authclient.Session, error) {
	f.calls++
	return f.sess, f.err
}

func expiredRequest(t *testing.T, sub, role string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: sign(t, sub, role, time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "r1"})
	return req
}

func sign(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccessToken(secret, sub, role, exp)
	require.NoError(t, err)
	return tok
}

func serve(h echo.HandlerFunc, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(h)(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, err
}

func okHandler(got *identity.Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := identity.From(c)
		if err != nil {
			return err
		}
		*got = id
		return c.NoContent(http.StatusNoContent)
	}
}

func TestRequireAuth_Bearer(t *testing.T) {
	uid := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, uid.String(), "seller", time.Now().Add(time.Minute)))

	var got identity.Identity
	m := New(secret, nil)
	rec, err := serve(okHandler(&got), m.RequireAuth, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uid, got.UserID)
	assert.Equal(t, identity.RoleSeller, got.Role)
}

func TestRequireAuth_Cookie(t *testing.T) {
	uid := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: sign(t, uid.String(), "user", time.Now().Add(time.Minute))})

	var got identity.Identity
	rec, err := serve(okHandler(&got), New(secret, nil).RequireAuth, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, identity.RoleBuyer, got.Role)
}

func TestRequireAuth_Rejects(t *testing.T) {
	uid := uuid.New().String()
	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{name: "no token", setup: func(r *http.Request) {}},
		{name: "garbage bearer", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer nope")
		}},
		{name: "unknown role", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, uid, "root", time.Now().Add(time.Minute)))
		}},
		{name: "subject not uuid", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, "42", "buyer", time.Now().Add(time.Minute)))
		}},
		{name: "expired without refresher", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: accessCookie, Value: sign(t, uid, "buyer", time.Now().Add(-time.Minute))})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)

			var got identity.Identity
			rec, err := serve(okHandler(&got), New(secret, nil).RequireAuth, req)
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAuth_RefreshesExpiredCookie(t *testing.T) {
	uid := uuid.New()
	fresh := sign(t, uid.String(), "admin", time.Now().Add(time.Hour))
	ref := &fakeRefresher{sess: &authclient.Session{
		AccessToken:  fresh,
		RefreshToken: "r2",
		AccessExp:    time.Now().Add(time.Hour),
		RefreshExp:   time.Now().Add(24 * time.Hour),
		UserID:       uid,
		Role:         identity.RoleAdmin,
	}}

	var got identity.Identity
	rec, err := serve(okHandler(&got), New(secret, ref).RequireAuth, expiredRequest(t, uid.String(), "admin"))
	require.NoError(t, err)
	assert.Equal(t, 1, ref.calls)
	assert.Equal(t, identity.RoleAdmin, got.Role)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, fresh, cookies[0].Value)
	assert.Equal(t, "r2", cookies[1].Value)
}

func TestRequireAuth_RefreshFailureClearsCookies(t *testing.T) {
	uid := uuid.New().String()
	for _, refErr := range []error{errors.New("boom"), authclient.ErrRejected} {
		ref := &fakeRefresher{err: refErr}

		var got identity.Identity
		rec, err := serve(okHandler(&got), New(secret, ref).RequireAuth, expiredRequest(t, uid, "buyer"))
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		for _, ck := range rec.Result().Cookies() {
			assert.Equal(t, -1, ck.MaxAge)
		}
	}
}

func TestRequireAuth_RefreshIdentityMismatch(t *testing.T) {
	uid := uuid.New()
	fresh := sign(t, uid.String(), "admin", time.Now().Add(time.Hour))
	tests := []struct {
		name string
		user uuid.UUID
		role identity.Role
	}{
		{name: "role", user: uid, role: identity.RoleBuyer},
		{name: "user", user: uuid.New(), role: identity.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := &fakeRefresher{sess: &authclient.Session{
				AccessToken:  fresh,
				RefreshToken: "r2",
				AccessExp:    time.Now().Add(time.Hour),
				RefreshExp:   time.Now().Add(24 * time.Hour),
				UserID:       tt.user,
				Role:         tt.role,
			}}

			var got identity.Identity
			rec, err := serve(okHandler(&got), New(secret, ref).RequireAuth, expiredRequest(t, uid.String(), "admin"))
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, identity.Identity{}, got)
			for _, ck := range rec.Result().Cookies() {
				assert.NotEqual(t, fresh, ck.Value)
				assert.Equal(t, -1, ck.MaxAge)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	uid := uuid.New().String()
	m := New(secret, nil)
	mw := m.RequireRole(identity.RoleSeller, identity.RoleAdmin)

	tests := []struct {
		role string
		want int
	}{
		{role: "buyer", want: http.StatusForbidden},
		{role: "seller", want: http.StatusNoContent},
		{role: "admin", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, uid, tt.role, time.Now().Add(time.Minute)))

			var got identity.Identity
			rec, _ := serve(okHandler(&got), mw, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
