package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService defines the interface for cart business logic. Mutations
// return the cart total recomputed inside the same transaction so callers
// never see a total that disagrees with the change they just made.
type CartService interface {
	GetCartItems(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, productID int64, qty int) (*domain.CartItem, decimal.Decimal, error)
	UpdateCartItem(ctx context.Context, id int64, qty int) (*domain.CartItem, decimal.Decimal, error)
	RemoveFromCart(ctx context.Context, id int64) (bool, decimal.Decimal, error)
	ClearCart(ctx context.Context) (int64, error)
}

type cartService struct {
	db          *sql.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(db *sql.DB, cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCartItems returns every cart line joined with product detail plus the
// grand total. An empty cart yields an empty slice and a zero total.
func (s *cartService) GetCartItems(ctx context.Context) (*domain.Cart, error) {
	items, err := s.cartRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}

	return &domain.Cart{Items: items, Total: total}, nil
}

// AddToCart inserts a new line for the product or, if one already exists,
// increments its quantity. The subtotal is recomputed from the current
// catalog price either way. The product lookup, existing-line lookup, and
// write all run in one transaction with row locks, so concurrent adds for
// the same product cannot lose an increment.
func (s *cartService) AddToCart(ctx context.Context, productID int64, qty int) (*domain.CartItem, decimal.Decimal, error) {
	if productID <= 0 {
		return nil, decimal.Zero, fmt.Errorf("valid productId is required: %w", ErrValidation)
	}
	if qty <= 0 {
		return nil, decimal.Zero, fmt.Errorf("qty must be greater than 0: %w", ErrValidation)
	}

	var (
		line  *domain.CartItem
		total decimal.Decimal
	)

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		product, err := productRepo.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		existing, err := cartRepo.FindByProductIDForUpdate(ctx, productID)
		switch {
		case err == nil:
			newQty := existing.Qty + qty
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(newQty)))
			if err := cartRepo.UpdateQty(ctx, existing.ID, newQty, subtotal); err != nil {
				return err
			}
			line, err = cartRepo.FindByID(ctx, existing.ID)
			if err != nil {
				return err
			}

		case errors.Is(err, repository.ErrCartItemNotFound):
			item := &domain.CartItem{
				ProductID: productID,
				Qty:       qty,
				Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(qty))),
			}
			if err := cartRepo.Insert(ctx, item); err != nil {
				return err
			}
			line, err = cartRepo.FindByID(ctx, item.ID)
			if err != nil {
				return err
			}

		default:
			return err
		}

		total, err = cartRepo.Total(ctx)
		return err
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	return line, total, nil
}

// UpdateCartItem sets a line's quantity and reprices it at the current
// catalog price, not the price at original add time.
func (s *cartService) UpdateCartItem(ctx context.Context, id int64, qty int) (*domain.CartItem, decimal.Decimal, error) {
	if id <= 0 {
		return nil, decimal.Zero, fmt.Errorf("valid cart item id is required: %w", ErrValidation)
	}
	if qty <= 0 {
		return nil, decimal.Zero, fmt.Errorf("qty must be greater than 0: %w", ErrValidation)
	}

	var (
		line  *domain.CartItem
		total decimal.Decimal
	)

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		current, err := cartRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		product, err := productRepo.FindByIDForUpdate(ctx, current.ProductID)
		if err != nil {
			return err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		if err := cartRepo.UpdateQty(ctx, id, qty, subtotal); err != nil {
			return err
		}

		line, err = cartRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		total, err = cartRepo.Total(ctx)
		return err
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	return line, total, nil
}

// RemoveFromCart deletes one line. A missing id is a normal outcome,
// reported as false rather than an error.
func (s *cartService) RemoveFromCart(ctx context.Context, id int64) (bool, decimal.Decimal, error) {
	if id <= 0 {
		return false, decimal.Zero, fmt.Errorf("valid cart item id is required: %w", ErrValidation)
	}

	deleted, err := s.cartRepo.Delete(ctx, id)
	if err != nil {
		return false, decimal.Zero, err
	}

	total, err := s.cartRepo.Total(ctx)
	if err != nil {
		return deleted, decimal.Zero, err
	}

	return deleted, total, nil
}

// ClearCart removes every line. Idempotent: clearing an empty cart
// succeeds with a zero count.
func (s *cartService) ClearCart(ctx context.Context) (int64, error) {
	return s.cartRepo.DeleteAll(ctx)
}
