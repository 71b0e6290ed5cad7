package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"storefront/internal/dto"
	"storefront/internal/model"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var decimalOne = decimal.NewFromInt(1)

type CatalogService interface {
	ListProducts(ctx context.Context, sort repository.ProductSort) ([]*dto.ProductResponse, error)
	ListByCategory(ctx context.Context, categorySlug string, sort repository.ProductSort) ([]*dto.ProductResponse, error)
	GetProduct(ctx context.Context, slug string) (*dto.ProductResponse, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	CreateProduct(ctx context.Context, sellerID uint, req *dto.ProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, sellerID uint, slug string, req *dto.ProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, sellerID uint, slug string) error
}

type catalogServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, sort repository.ProductSort) ([]*dto.ProductResponse, error) {
	products, err := s.productRepo.ListPublished(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return toProductResponses(products), nil
}

func (s *catalogServiceImpl) ListByCategory(ctx context.Context, categorySlug string, sort repository.ProductSort) ([]*dto.ProductResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, categorySlug)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	products, err := s.productRepo.ListByCategory(ctx, category.ID, sort)
	if err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}
	return toProductResponses(products), nil
}

// GetProduct returns one product by slug and counts the view.
func (s *catalogServiceImpl) GetProduct(ctx context.Context, slug string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, slug)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if err := s.productRepo.IncrementViews(ctx, product.ID); err != nil {
		s.logger.Warn("increment views", zap.String("slug", slug), zap.Error(err))
	}
	product.Views++

	return toProductResponse(product), nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, sellerID uint, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindBySlug(ctx, req.CategorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, req.CategorySlug)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	product := &model.Product{
		Title:      req.Title,
		Slug:       slugify(req.Title),
		Body:       req.Body,
		Price:      req.Price,
		Stock:      req.Stock,
		Published:  true,
		CategoryID: category.ID,
		SellerID:   sellerID,
	}
	if req.Published != nil {
		product.Published = *req.Published
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return toProductResponse(product), nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, sellerID uint, slug string, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product, err := s.ownedProduct(ctx, sellerID, slug)
	if err != nil {
		return nil, err
	}

	product.Title = req.Title
	product.Body = req.Body
	product.Price = req.Price
	product.Stock = req.Stock
	if req.Published != nil {
		product.Published = *req.Published
	}
	if req.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, req.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category %s", ErrNotFound, req.CategorySlug)
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
		product.CategoryID = category.ID
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return toProductResponse(product), nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, sellerID uint, slug string) error {
	product, err := s.ownedProduct(ctx, sellerID, slug)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.ID)
}

func (s *catalogServiceImpl) ownedProduct(ctx context.Context, sellerID uint, slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, slug)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product.SellerID != sellerID {
		return nil, fmt.Errorf("%w: product %s belongs to another seller", ErrForbidden, slug)
	}
	return product, nil
}

func validateProduct(req *dto.ProductRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.Price.LessThan(decimalOne) {
		return fmt.Errorf("%w: price must be at least 1", ErrValidation)
	}
	if req.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify builds a unique URL slug from the title plus the current unix
// time, mirroring how product URLs were generated historically.
func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return fmt.Sprintf("%s-%d", slug, time.Now().Unix())
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Body:       p.Body,
		Price:      p.Price,
		Stock:      p.Stock,
		Views:      p.Views,
		SellerID:   p.SellerID,
		CategoryID: p.CategoryID,
	}
}

func toProductResponses(products []*model.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}
