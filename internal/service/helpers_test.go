package service

import (
	"storefront/internal/model"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one shared in-memory database per test
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.PaymentEvent{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, seller bool) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Active:       true,
		Seller:       seller,
		Balance:      decimal.Zero,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name, slug string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, title string, sellerID, categoryID uint, price int64, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Title:      title,
		Slug:       title,
		Price:      decimal.NewFromInt(price),
		Stock:      stock,
		Published:  true,
		CategoryID: categoryID,
		SellerID:   sellerID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

type mockMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *mockMailer) SendActivationEmail(to, activationURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}
