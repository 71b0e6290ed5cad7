package repository

import (
	"context"
	"errors"
	"storefront/internal/model"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a stock decrement would drive stock
// below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductSort string

const (
	SortByViews     ProductSort = "views"
	SortByPriceAsc  ProductSort = "price_asc"
	SortByPriceDesc ProductSort = "price_desc"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID uint) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error)
	ListPublished(ctx context.Context, sort ProductSort) ([]*model.Product, error)
	ListByCategory(ctx context.Context, categoryID uint, sort ProductSort) ([]*model.Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]*model.Product, error)
	IncrementViews(ctx context.Context, productID uint) error
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, productID uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Product{}, productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListPublished(ctx context.Context, sort ProductSort) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order(orderClause(sort)).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListByCategory(ctx context.Context, categoryID uint, sort ProductSort) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND published = ?", categoryID, true).
		Order(orderClause(sort)).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListBySeller(ctx context.Context, sellerID uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) IncrementViews(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// DecrementStock guards against overselling with a conditional update; zero
// rows affected means the remaining stock was below the requested quantity.
func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int) error {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func orderClause(sort ProductSort) string {
	switch sort {
	case SortByPriceAsc:
		return "price ASC"
	case SortByPriceDesc:
		return "price DESC"
	default:
		return "views DESC"
	}
}
