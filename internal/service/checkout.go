package service

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/dto"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, buyerID uint) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	db          *gorm.DB
	cart        CartService
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	logger      *zap.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	cart CartService,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:          db,
		cart:        cart,
		productRepo: productRepo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// Checkout materializes the session cart into order lines sharing one
// order number. Order creation and stock decrements run in a single
// transaction; the cart is cleared only after commit.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, sessionID string, buyerID uint) (*dto.CheckoutResponse, error) {
	entries, err := s.cart.Entries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	orderNumber := uuid.NewString()
	totalPrice := decimal.Zero
	orders := make([]*model.Order, len(entries))

	for i, entry := range entries {
		product, err := s.productRepo.FindByID(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, entry.ProductID)
			}
			return nil, fmt.Errorf("find product: %w", err)
		}

		if product.SellerID == 0 {
			return nil, fmt.Errorf("%w: product %d has no seller", ErrIntegrity, product.ID)
		}
		if _, err := s.userRepo.FindByID(ctx, product.SellerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: seller %d for product %d", ErrIntegrity, product.SellerID, product.ID)
			}
			return nil, fmt.Errorf("resolve seller: %w", err)
		}

		orders[i] = &model.Order{
			OrderNumber: orderNumber,
			SellerID:    product.SellerID,
			ProductID:   product.ID,
			Price:       entry.Price,
			Quantity:    entry.Quantity,
		}
		totalPrice = totalPrice.Add(orders[i].LineTotal())
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.CreateAll(ctx, tx, orders); err != nil {
			return fmt.Errorf("store order lines: %w", err)
		}

		for _, order := range orders {
			if err := s.productRepo.DecrementStock(ctx, tx, order.ProductID, order.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return fmt.Errorf("%w: product %d", ErrInsufficientStock, order.ProductID)
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx, sessionID); err != nil {
		// orders are already committed; the stale cart is recoverable
		s.logger.Error("clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.String("order_number", orderNumber),
			zap.Error(err))
	}

	s.logger.Info("checkout completed",
		zap.String("order_number", orderNumber),
		zap.Uint("buyer_id", buyerID),
		zap.Int("lines", len(orders)),
		zap.String("total", totalPrice.String()))

	return &dto.CheckoutResponse{
		OrderNumber: orderNumber,
		TotalPrice:  totalPrice,
	}, nil
}
