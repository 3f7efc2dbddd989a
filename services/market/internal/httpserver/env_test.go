package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/market/pkg/db"
	"github.com/Skotchmaster/market/pkg/events"
	"github.com/Skotchmaster/market/pkg/metrics"
	authmw "github.com/Skotchmaster/market/pkg/middleware/auth"
	"github.com/Skotchmaster/market/pkg/tokens"
	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
	"github.com/Skotchmaster/market/services/market/internal/service"
)

var testSecret = []byte("http-test-secret")

type testEnv struct {
	E      *echo.Echo
	Repo   *repo.GormRepo
	Events *events.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	rec := &events.Recorder{}
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)

	reviews := &service.ReviewService{Repo: r, Events: rec}
	e := echo.New()
	e.Validator = NewValidator()
	Register(e, &Deps{
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r}, Reviews: reviews},
		Cart:      &CartHTTP{Svc: &service.CartService{Repo: r, Events: rec}},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: rec, Metrics: m}, Receipts: &service.ReceiptService{Repo: r, Events: rec, Metrics: m}},
		Reviews:   &ReviewHTTP{Svc: reviews},
		Favorites: &FavoriteHTTP{Svc: &service.FavoriteService{Repo: r}},
		Health:    &HealthHTTP{DB: gdb},
		Auth:      authmw.New(testSecret, nil),
		Gatherer:  reg,
	})
	return &testEnv{E: e, Repo: r, Events: rec}
}

type user struct {
	ID    uuid.UUID
	Token string
}

func newUser(t *testing.T, role string) user {
	t.Helper()
	id := uuid.New()
	tok, err := tokens.SignAccessToken(testSecret, id.String(), role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return user{ID: id, Token: tok}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, u *user) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if u != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+u.Token)
	}
	rec := httptest.NewRecorder()
	e.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// seedProduct creates a store and a product through the API as seller.
func (e *testEnv) seedProduct(t *testing.T, seller user, price int64) models.Product {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/stores", map[string]any{"name": "shop"}, &seller)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	store := decode[models.Store](t, rec)

	rec = e.do(t, http.MethodPost, "/api/v1/stores/"+store.ID.String()+"/products",
		map[string]any{"name": "thing", "price": price, "quantity": 5}, &seller)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Product](t, rec)
}
