package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPaymentHandlerFixture(t *testing.T) (*PaymentHandler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Product{}, &model.Order{}, &model.PaymentEvent{}))

	paymentService := service.NewPaymentService(db,
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewPaymentEventRepository(db),
		zap.NewNop())

	return NewPaymentHandler(paymentService, zap.NewNop()), db
}

func postConfirm(t *testing.T, h *PaymentHandler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/confirm", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Confirm(e.NewContext(req, rec)))
	return rec
}

func TestConfirmEndpointMarksOrderPaid(t *testing.T) {
	h, db := newPaymentHandlerFixture(t)

	seller := &model.User{Username: "seller", Email: "s@example.com", PasswordHash: "x", Active: true, Seller: true, Balance: decimal.Zero}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(&model.Order{
		OrderNumber: "ord-1",
		SellerID:    seller.ID,
		ProductID:   1,
		Price:       decimal.NewFromInt(10),
		Quantity:    2,
	}).Error)

	rec := postConfirm(t, h, url.Values{"label": {"ord-1"}, "amount": {"20"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	var order model.Order
	require.NoError(t, db.Where("order_number = ?", "ord-1").First(&order).Error)
	assert.True(t, order.Paid)

	var got model.User
	require.NoError(t, db.First(&got, seller.ID).Error)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(20)))
}

// the callback sender retries on non-2xx, so bad input is acknowledged
func TestConfirmEndpointAcknowledgesBadCallbacks(t *testing.T) {
	h, _ := newPaymentHandlerFixture(t)

	rec := postConfirm(t, h, url.Values{"label": {"no-such-order"}, "amount": {"20"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())

	rec = postConfirm(t, h, url.Values{"label": {""}, "amount": {"20"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
}

func TestConfirmEndpointIgnoresDuplicateEvents(t *testing.T) {
	h, db := newPaymentHandlerFixture(t)

	seller := &model.User{Username: "seller", Email: "s@example.com", PasswordHash: "x", Active: true, Seller: true, Balance: decimal.Zero}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(&model.Order{
		OrderNumber: "ord-1",
		SellerID:    seller.ID,
		ProductID:   1,
		Price:       decimal.NewFromInt(10),
		Quantity:    1,
	}).Error)

	form := url.Values{"label": {"ord-1"}, "amount": {"10"}, "event_id": {"evt-1"}}

	rec := postConfirm(t, h, form)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = postConfirm(t, h, form)
	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())

	var got model.User
	require.NoError(t, db.First(&got, seller.ID).Error)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10)), "credited exactly once")
}
