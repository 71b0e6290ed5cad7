package service

import (
	"context"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db      *gorm.DB
	payment PaymentService
	catID   uint
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := newTestDB(t)
	category := createCategory(t, db, "Books", "books")

	return &paymentFixture{
		db: db,
		payment: NewPaymentService(db,
			repository.NewOrderRepository(db),
			repository.NewUserRepository(db),
			repository.NewPaymentEventRepository(db),
			zap.NewNop()),
		catID: category.ID,
	}
}

// order persists one unpaid order line for the given seller.
func (f *paymentFixture) order(t *testing.T, orderNumber string, seller *model.User, price int64, quantity int) *model.Order {
	t.Helper()

	product := createProduct(t, f.db, orderNumber+"-p", seller.ID, f.catID, price, 100)
	order := &model.Order{
		OrderNumber: orderNumber,
		SellerID:    seller.ID,
		ProductID:   product.ID,
		Price:       decimal.NewFromInt(price),
		Quantity:    quantity,
	}
	require.NoError(t, f.db.Create(order).Error)
	return order
}

func (f *paymentFixture) balance(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	var user model.User
	require.NoError(t, f.db.First(&user, userID).Error)
	return user.Balance
}

func (f *paymentFixture) lines(t *testing.T, orderNumber string) []*model.Order {
	t.Helper()
	var orders []*model.Order
	require.NoError(t, f.db.Where("order_number = ?", orderNumber).Order("id ASC").Find(&orders).Error)
	return orders
}

func TestConfirmExactAmountPaysAllLines(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	sellerA := createUser(t, f.db, "seller-a", true)
	sellerB := createUser(t, f.db, "seller-b", true)
	f.order(t, "ord-1", sellerA, 10, 2) // line total 20
	f.order(t, "ord-1", sellerB, 25, 1) // line total 25

	require.NoError(t, f.payment.Confirm(ctx, "", "ord-1", decimal.NewFromInt(45)))

	for _, line := range f.lines(t, "ord-1") {
		assert.True(t, line.Paid)
	}
	assert.True(t, f.balance(t, sellerA.ID).Equal(decimal.NewFromInt(20)))
	assert.True(t, f.balance(t, sellerB.ID).Equal(decimal.NewFromInt(25)))
}

func TestConfirmIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	seller := createUser(t, f.db, "seller", true)
	f.order(t, "ord-1", seller, 10, 1)

	require.NoError(t, f.payment.Confirm(ctx, "", "ord-1", decimal.NewFromInt(10)))

	// same confirmation delivered again: settled orders are a no-op
	err := f.payment.Confirm(ctx, "", "ord-1", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrDuplicateEvent)

	assert.True(t, f.balance(t, seller.ID).Equal(decimal.NewFromInt(10)), "seller must be credited exactly once")
}

func TestConfirmDuplicateEventIDIsRejected(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	seller := createUser(t, f.db, "seller", true)
	f.order(t, "ord-1", seller, 10, 1)
	f.order(t, "ord-2", seller, 10, 1)

	require.NoError(t, f.payment.Confirm(ctx, "evt-1", "ord-1", decimal.NewFromInt(10)))

	err := f.payment.Confirm(ctx, "evt-1", "ord-2", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrDuplicateEvent)

	// the second order stays untouched
	for _, line := range f.lines(t, "ord-2") {
		assert.False(t, line.Paid)
	}
	assert.True(t, f.balance(t, seller.ID).Equal(decimal.NewFromInt(10)))
}

func TestConfirmPartialAmountPaysAffordablePrefix(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	sellerA := createUser(t, f.db, "seller-a", true)
	sellerB := createUser(t, f.db, "seller-b", true)
	f.order(t, "ord-1", sellerA, 10, 1) // line total 10
	f.order(t, "ord-1", sellerB, 25, 1) // line total 25

	// covers the first line only
	require.NoError(t, f.payment.Confirm(ctx, "", "ord-1", decimal.NewFromInt(15)))

	lines := f.lines(t, "ord-1")
	assert.True(t, lines[0].Paid)
	assert.False(t, lines[1].Paid)
	assert.True(t, f.balance(t, sellerA.ID).Equal(decimal.NewFromInt(10)))
	assert.True(t, f.balance(t, sellerB.ID).IsZero())
}

func TestConfirmNeverOverCredits(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	seller := createUser(t, f.db, "seller", true)
	f.order(t, "ord-1", seller, 10, 1)
	f.order(t, "ord-1", seller, 10, 1)
	f.order(t, "ord-1", seller, 10, 1)

	amount := decimal.NewFromInt(25)
	require.NoError(t, f.payment.Confirm(ctx, "", "ord-1", amount))

	// two lines affordable, third is not
	assert.True(t, f.balance(t, seller.ID).LessThanOrEqual(amount))
	assert.True(t, f.balance(t, seller.ID).Equal(decimal.NewFromInt(20)))
}

func TestConfirmZeroAmountPaysNothing(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	seller := createUser(t, f.db, "seller", true)
	f.order(t, "ord-1", seller, 10, 1)

	require.NoError(t, f.payment.Confirm(ctx, "", "ord-1", decimal.Zero))

	for _, line := range f.lines(t, "ord-1") {
		assert.False(t, line.Paid)
	}
	assert.True(t, f.balance(t, seller.ID).IsZero())
}

func TestConfirmUnknownOrderNumber(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.payment.Confirm(context.Background(), "", "missing", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmRejectsBadInput(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	err := f.payment.Confirm(ctx, "", "", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrValidation)

	err = f.payment.Confirm(ctx, "", "ord-1", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConfirmResumesUnpaidSuffix(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	seller := createUser(t, f.db, "seller", true)
	f.order(t, "ord-1", seller, 10, 1)
	f.order(t, "ord-1", seller, 25, 1)

	// first confirmation covers only the first line
	require.NoError(t, f.payment.Confirm(ctx, "", "ord-1", decimal.NewFromInt(10)))
	// second confirmation funds the remainder
	require.NoError(t, f.payment.Confirm(ctx, "", "ord-1", decimal.NewFromInt(25)))

	for _, line := range f.lines(t, "ord-1") {
		assert.True(t, line.Paid)
	}
	assert.True(t, f.balance(t, seller.ID).Equal(decimal.NewFromInt(35)))
}
