package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID              uint            `gorm:"primaryKey"`
	Username        string          `gorm:"size:150;uniqueIndex;not null"`
	Email           string          `gorm:"size:254;not null"`
	PasswordHash    string          `gorm:"size:128;not null"`
	Active          bool            `gorm:"not null;default:false"`
	Seller          bool            `gorm:"not null;default:false"`
	Balance         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ActivationToken string          `gorm:"size:64;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;index;not null"`
	Slug string `gorm:"size:255;uniqueIndex;not null"`
}

type Product struct {
	ID        uint            `gorm:"primaryKey"`
	Title     string          `gorm:"size:255;not null"`
	Slug      string          `gorm:"size:255;uniqueIndex;not null"`
	Body      string          `gorm:"type:text"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null"`
	Published bool            `gorm:"not null;default:true"`
	Views     uint            `gorm:"not null;default:0"`
	// FK → category.id
	CategoryID uint `gorm:"index;not null"`
	// FK → user.id, the seller who listed the product
	SellerID  uint `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is one line of a checkout event. All lines created by one checkout
// share an OrderNumber.
type Order struct {
	ID          uint            `gorm:"primaryKey"`
	OrderNumber string          `gorm:"size:64;index;not null"`
	SellerID    uint            `gorm:"index;not null"`
	ProductID   uint            `gorm:"index;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // unit price snapshot
	Quantity    int             `gorm:"not null"`
	Paid        bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

// LineTotal is the amount this line contributes to the checkout total and
// to the seller's credit on confirmation.
func (o *Order) LineTotal() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

type PaymentEvent struct {
	EventID     string          `gorm:"primaryKey;size:128;not null"`
	OrderNumber string          `gorm:"size:64;index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
