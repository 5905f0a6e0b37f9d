package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductInput carries the fields for creating a product
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

// ProductUpdate carries a partial update; nil fields are left unchanged
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
}

// CatalogService defines the interface for product catalog business logic
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// ListProducts returns all products, newest first
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

// GetProduct returns one product by id
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("valid product id is required: %w", ErrValidation)
	}
	return s.productRepo.FindByID(ctx, id)
}

// SearchProducts matches products by name or description
func (s *catalogService) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.productRepo.Search(ctx, query)
}

// CreateProduct validates and persists a new product
func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}

	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies a partial update to an existing product. Cart lines
// referencing the product keep their stored subtotal; a price change here
// only affects lines mutated afterwards.
func (s *catalogService) UpdateProduct(ctx context.Context, id int64, in ProductUpdate) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("valid product id is required: %w", ErrValidation)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", ErrValidation)
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
		}
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product; its cart line, if any, cascades away
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("valid product id is required: %w", ErrValidation)
	}
	return s.productRepo.Delete(ctx, id)
}
