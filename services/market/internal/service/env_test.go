package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/market/pkg/db"
	"github.com/Skotchmaster/market/pkg/events"
	"github.com/Skotchmaster/market/pkg/identity"
	"github.com/Skotchmaster/market/pkg/metrics"
	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
)

type testEnv struct {
	Repo     *repo.GormRepo
	Events   *events.Recorder
	Metrics  *metrics.Metrics
	Catalog  *CatalogService
	Cart     *CartService
	Orders   *OrderService
	Receipts *ReceiptService
	Reviews  *ReviewService
	Favs     *FavoriteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	rec := &events.Recorder{}
	m := metrics.New("test", prometheus.NewRegistry())
	return &testEnv{
		Repo:     r,
		Events:   rec,
		Metrics:  m,
		Catalog:  &CatalogService{Repo: r},
		Cart:     &CartService{Repo: r, Events: rec},
		Orders:   &OrderService{Repo: r, Events: rec, Metrics: m},
		Receipts: &ReceiptService{Repo: r, Events: rec, Metrics: m},
		Reviews:  &ReviewService{Repo: r, Events: rec},
		Favs:     &FavoriteService{Repo: r},
	}
}

func seller() identity.Identity {
	return identity.Identity{UserID: uuid.New(), Role: identity.RoleSeller}
}

// seedProduct opens a store for owner and lists one product in it.
func (e *testEnv) seedProduct(t *testing.T, owner identity.Identity, price int64) *models.Product {
	t.Helper()
	ctx := context.Background()
	store, err := e.Catalog.CreateStore(ctx, owner, "shop")
	require.NoError(t, err)
	p, err := e.Catalog.CreateProduct(ctx, owner.UserID, NewProduct{StoreID: store.ID, Name: "thing", Price: price, Quantity: 3})
	require.NoError(t, err)
	return p
}

func intp(v int) *int { return &v }
