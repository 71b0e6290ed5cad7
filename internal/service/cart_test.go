package service

import (
	"context"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type cartFixture struct {
	svc      CartService
	db       *gorm.DB
	store    session.Store
	sellerID uint
	catID    uint
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	db := newTestDB(t)
	seller := createUser(t, db, "seller", true)
	category := createCategory(t, db, "Books", "books")
	store := session.NewMemoryStore()

	return &cartFixture{
		svc:      NewCartService(store, repository.NewProductRepository(db), zap.NewNop()),
		db:       db,
		store:    store,
		sellerID: seller.ID,
		catID:    category.ID,
	}
}

func (f *cartFixture) product(t *testing.T, title string, price int64, stock int) *model.Product {
	return createProduct(t, f.db, title, f.sellerID, f.catID, price, stock)
}

func TestCartAddAccumulatesQuantity(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p := f.product(t, "book", 10, 100)

	require.NoError(t, f.svc.Add(ctx, "sid", p.ID, 3, false))
	require.NoError(t, f.svc.Add(ctx, "sid", p.ID, 2, false))

	items, err := f.svc.List(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, items[0].TotalPrice.Equal(decimal.NewFromInt(50)))
}

func TestCartAddUpdateReplacesQuantity(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p := f.product(t, "book", 10, 100)

	require.NoError(t, f.svc.Add(ctx, "sid", p.ID, 3, false))
	require.NoError(t, f.svc.Add(ctx, "sid", p.ID, 2, true))

	items, err := f.svc.List(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartAddSnapshotsPrice(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p := f.product(t, "book", 10, 100)

	require.NoError(t, f.svc.Add(ctx, "sid", p.ID, 1, false))

	// catalog price change after add must not affect the cart
	require.NoError(t, f.db.Model(p).Update("price", decimal.NewFromInt(99)).Error)

	items, err := f.svc.List(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestCartAddRejectsBadInput(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p := f.product(t, "book", 10, 100)

	err := f.svc.Add(ctx, "sid", p.ID, 0, false)
	assert.ErrorIs(t, err, ErrValidation)

	err = f.svc.Add(ctx, "sid", 9999, 1, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartTotalSumsAllEntries(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p1 := f.product(t, "book", 10, 100)
	p2 := f.product(t, "lamp", 25, 100)

	require.NoError(t, f.svc.Add(ctx, "sid", p1.ID, 2, false))
	require.NoError(t, f.svc.Add(ctx, "sid", p2.ID, 1, false))

	total, err := f.svc.Total(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(45)), "got %s", total)

	// total always equals the sum over the enriched items
	items, err := f.svc.List(ctx, "sid")
	require.NoError(t, err)
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice)
	}
	assert.True(t, total.Equal(sum))
}

func TestCartRemove(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p1 := f.product(t, "book", 10, 100)
	p2 := f.product(t, "lamp", 25, 100)

	require.NoError(t, f.svc.Add(ctx, "sid", p1.ID, 1, false))
	require.NoError(t, f.svc.Add(ctx, "sid", p2.ID, 1, false))
	require.NoError(t, f.svc.Remove(ctx, "sid", p1.ID))

	items, err := f.svc.List(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p2.ID, items[0].ProductID)
}

func TestCartRemoveMissingProductIsNoop(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.svc.Remove(ctx, "empty-session", 42))

	items, err := f.svc.List(ctx, "empty-session")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartClear(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p := f.product(t, "book", 10, 100)

	require.NoError(t, f.svc.Add(ctx, "sid", p.ID, 1, false))
	require.NoError(t, f.svc.Clear(ctx, "sid"))

	total, err := f.svc.Total(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestCartSessionsAreIndependent(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	p := f.product(t, "book", 10, 100)

	require.NoError(t, f.svc.Add(ctx, "alice", p.ID, 1, false))

	items, err := f.svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, items)
}
