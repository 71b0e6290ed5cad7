package repository

import (
	"context"
	"storefront/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateAll(ctx context.Context, tx *gorm.DB, orders []*model.Order) error
	FindByOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber string) ([]*model.Order, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID uint) (bool, error)
	AllPaid(ctx context.Context, orderNumber string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) CreateAll(ctx context.Context, tx *gorm.DB, orders []*model.Order) error {
	return tx.WithContext(ctx).Create(&orders).Error
}

// FindByOrderNumber returns the lines of one checkout event in creation
// order, so confirmation processes them deterministically.
func (r *orderRepoImpl) FindByOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber string) ([]*model.Order, error) {
	var orders []*model.Order
	err := tx.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("id ASC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkPaid is a compare-and-set on the paid flag. It reports whether this
// call won the transition; a false result means the line was already paid,
// so concurrent deliveries of the same confirmation cannot credit twice.
func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderID uint) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND paid = ?", orderID, false).
		UpdateColumn("paid", true)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AllPaid reports whether the order number exists and every one of its
// lines is already paid.
func (r *orderRepoImpl) AllPaid(ctx context.Context, orderNumber string) (bool, error) {
	var total, unpaid int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&total).Error
	if err != nil {
		return false, err
	}

	err = r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_number = ? AND paid = ?", orderNumber, false).
		Count(&unpaid).Error

	return total > 0 && unpaid == 0, err
}
