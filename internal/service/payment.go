package service

import (
	"context"
	"fmt"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService interface {
	Confirm(ctx context.Context, eventID, orderNumber string, amount decimal.Decimal) error
}

type paymentServiceImpl struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	eventRepo repository.PaymentEventRepository
	logger    *zap.Logger
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	eventRepo repository.PaymentEventRepository,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:        db,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// Confirm applies an external payment confirmation: it marks the order
// lines of one checkout paid and credits each line's seller, oldest line
// first. A line is credited only while its total fits into the remaining
// amount, so the credited sum never exceeds what was confirmed. Lines
// already paid are skipped, which makes re-delivery a no-op.
func (s *paymentServiceImpl) Confirm(ctx context.Context, eventID, orderNumber string, amount decimal.Decimal) error {
	if orderNumber == "" {
		return fmt.Errorf("%w: missing order number", ErrValidation)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrValidation)
	}

	if eventID == "" {
		eventID = uuid.NewString()
	} else {
		seen, err := s.eventRepo.Exists(ctx, eventID)
		if err != nil {
			return fmt.Errorf("check payment event: %w", err)
		}
		if seen {
			return fmt.Errorf("%w: %s", ErrDuplicateEvent, eventID)
		}
	}

	settled, err := s.orderRepo.AllPaid(ctx, orderNumber)
	if err != nil {
		return fmt.Errorf("check order state: %w", err)
	}
	if settled {
		// duplicate delivery for a finished checkout; nothing to credit
		return fmt.Errorf("%w: order %s already settled", ErrDuplicateEvent, orderNumber)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders, err := s.orderRepo.FindByOrderNumber(ctx, tx, orderNumber)
		if err != nil {
			return fmt.Errorf("find orders: %w", err)
		}
		if len(orders) == 0 {
			return fmt.Errorf("%w: order number %s", ErrNotFound, orderNumber)
		}

		remaining := amount
		credited := 0
		for _, order := range orders {
			if order.Paid {
				continue
			}

			lineTotal := order.LineTotal()
			if lineTotal.GreaterThan(remaining) {
				// affordable prefix only; later lines stay unpaid
				break
			}

			won, err := s.orderRepo.MarkPaid(ctx, tx, order.ID)
			if err != nil {
				return fmt.Errorf("mark order %d paid: %w", order.ID, err)
			}
			if !won {
				// a concurrent confirmation got there first
				continue
			}

			if err := s.userRepo.CreditBalance(ctx, tx, order.SellerID, lineTotal); err != nil {
				return fmt.Errorf("credit seller %d: %w", order.SellerID, err)
			}
			remaining = remaining.Sub(lineTotal)
			credited++
		}

		if err := s.eventRepo.MarkProcessed(ctx, tx, &model.PaymentEvent{
			EventID:     eventID,
			OrderNumber: orderNumber,
			Amount:      amount,
		}); err != nil {
			return fmt.Errorf("record payment event: %w", err)
		}

		s.logger.Info("payment confirmation processed",
			zap.String("event_id", eventID),
			zap.String("order_number", orderNumber),
			zap.String("amount", amount.String()),
			zap.Int("lines_credited", credited))

		return nil
	})
}
