package dto

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ProfileResponse struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Seller   bool            `json:"seller"`
	Balance  decimal.Decimal `json:"balance"`
}

type ProductRequest struct {
	Title        string          `json:"title"`
	Body         string          `json:"body"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategorySlug string          `json:"category_slug"`
	Published    *bool           `json:"published,omitempty"`
}

type ProductResponse struct {
	ID         uint            `json:"id"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	Body       string          `json:"body"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Views      uint            `json:"views"`
	SellerID   uint            `json:"seller_id"`
	CategoryID uint            `json:"category_id"`
}

type CartAddRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
	Update    bool `json:"update"`
}

type CartRemoveRequest struct {
	ProductID uint `json:"product_id"`
}

// CartItem is a cart entry enriched with live product data for rendering.
type CartItem struct {
	ProductID  uint            `json:"product_id"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"` // unit price snapshot from add time
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartResponse struct {
	Items []*CartItem     `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CheckoutResponse struct {
	OrderNumber string          `json:"order_number"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// ConfirmPaymentRequest is the external payment callback: form-encoded,
// label carries the order number.
type ConfirmPaymentRequest struct {
	Label   string          `form:"label"`
	Amount  decimal.Decimal `form:"amount"`
	EventID string          `form:"event_id"`
}
