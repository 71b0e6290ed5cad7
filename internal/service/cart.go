package service

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/dto"
	"storefront/internal/repository"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CartService interface {
	Add(ctx context.Context, sessionID string, productID uint, quantity int, update bool) error
	Remove(ctx context.Context, sessionID string, productID uint) error
	List(ctx context.Context, sessionID string) ([]*dto.CartItem, error)
	Total(ctx context.Context, sessionID string) (decimal.Decimal, error)
	Clear(ctx context.Context, sessionID string) error
	Entries(ctx context.Context, sessionID string) ([]session.Entry, error)
}

type cartServiceImpl struct {
	sessions    session.Store
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

func NewCartService(
	sessions session.Store,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		sessions:    sessions,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Add puts a product into the session cart, snapshotting its current
// catalog price. Re-adding an existing product increments its quantity
// unless update is set, in which case the quantity is replaced.
func (s *cartServiceImpl) Add(ctx context.Context, sessionID string, productID uint, quantity int, update bool) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return fmt.Errorf("find product: %w", err)
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if entry := cart.Find(productID); entry != nil {
		if update {
			entry.Quantity = quantity
		} else {
			entry.Quantity += quantity
		}
	} else {
		cart.Entries = append(cart.Entries, session.Entry{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}

	return s.sessions.Set(ctx, sessionID, cart)
}

// Remove drops the entry for a product. Removing a product that is not in
// the cart is a no-op.
func (s *cartServiceImpl) Remove(ctx context.Context, sessionID string, productID uint) error {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if !cart.Remove(productID) {
		return nil
	}

	return s.sessions.Set(ctx, sessionID, cart)
}

// List joins each cart entry with live product data. Prices stay the
// add-time snapshots; only titles and slugs are re-read from the catalog.
func (s *cartServiceImpl) List(ctx context.Context, sessionID string) ([]*dto.CartItem, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Entries) == 0 {
		return []*dto.CartItem{}, nil
	}

	productIDs := make([]uint, len(cart.Entries))
	for i, entry := range cart.Entries {
		productIDs[i] = entry.ProductID
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("find cart products: %w", err)
	}

	byID := make(map[uint]int, len(products))
	for i, product := range products {
		byID[product.ID] = i
	}

	items := make([]*dto.CartItem, 0, len(cart.Entries))
	for _, entry := range cart.Entries {
		i, ok := byID[entry.ProductID]
		if !ok {
			// product deleted since it was added; skip but keep the cart intact
			s.logger.Warn("cart references missing product",
				zap.String("session_id", sessionID),
				zap.Uint("product_id", entry.ProductID))
			continue
		}
		items = append(items, &dto.CartItem{
			ProductID:  entry.ProductID,
			Title:      products[i].Title,
			Slug:       products[i].Slug,
			Quantity:   entry.Quantity,
			Price:      entry.Price,
			TotalPrice: entry.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))),
		})
	}

	return items, nil
}

func (s *cartServiceImpl) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range cart.Entries {
		total = total.Add(entry.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
	}
	return total, nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Entries exposes the raw cart lines for the checkout processor.
func (s *cartServiceImpl) Entries(ctx context.Context, sessionID string) ([]session.Entry, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.Entries, nil
}

func (s *cartServiceImpl) load(ctx context.Context, sessionID string) (*session.Cart, error) {
	cart, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNoSession) {
		return &session.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}
