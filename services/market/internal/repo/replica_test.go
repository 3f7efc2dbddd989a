package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/pkg/db"
	"github.com/Skotchmaster/market/services/market/internal/models"
)

// newRepoWithStaleReplica registers a replica that has the schema but never
// receives any rows, the worst case of replication lag.
func newRepoWithStaleReplica(t *testing.T) *GormRepo {
	t.Helper()
	r := newTestRepo(t)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	replica, err := db.OpenSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(replica))
	t.Cleanup(func() { _ = db.Close(replica) })

	_, err = db.UseReplicas(r.DB, sqlite.Open(dsn))
	require.NoError(t, err)
	return r
}

func TestStaleReplica_PlainReadsUseReplica(t *testing.T) {
	r := newRepoWithStaleReplica(t)
	p := seedProduct(t, r, uuid.New(), 100)

	_, err := r.ProductByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStaleReplica_GetOrCreateCart(t *testing.T) {
	r := newRepoWithStaleReplica(t)
	ctx := context.Background()
	user := uuid.New()

	a, err := r.GetOrCreateCart(ctx, user)
	require.NoError(t, err)
	b, err := r.GetOrCreateCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestStaleReplica_ReadsOwnWrites(t *testing.T) {
	r := newRepoWithStaleReplica(t)
	ctx := context.Background()
	user := uuid.New()
	p := seedProduct(t, r, uuid.New(), 100)

	_, err := r.AddItem(ctx, user, p.ID, 2)
	require.NoError(t, err)
	cart, err := r.GetOrCreateCart(ctx, user)
	require.NoError(t, err)
	items, err := r.CartItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 2, items[0].Quantity)

	order, _, err := r.CheckoutCart(ctx, user)
	require.NoError(t, err)

	got, err := r.OrderForUser(ctx, order.ID, user)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	lines, err := r.OrderItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	orders, total, err := r.ListOrders(ctx, user, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, orders, 1)

	_, err = r.CreateReceipt(ctx, order.ID, p.StoreID, 5, time.Now().UTC())
	require.NoError(t, err)
	rec, err := r.ReceiptByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 200, rec.TotalSum)

	_, err = r.AddFavorite(ctx, user, p.ID)
	require.NoError(t, err)
	favs, err := r.ListFavorites(ctx, user)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	rv := models.Review{UserID: user, ProductID: p.ID, Rating: ptr(5)}
	require.NoError(t, r.CreateReview(ctx, &rv))
	_, err = r.ReviewByID(ctx, rv.ID)
	require.NoError(t, err)
}
