package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart line data access.
// The cart is a single global resource; there is no per-user partition.
type CartRepository interface {
	WithTx(tx *sql.Tx) CartRepository
	FindAll(ctx context.Context) ([]domain.CartItem, error)
	FindAllForUpdate(ctx context.Context) ([]domain.CartItem, error)
	FindByID(ctx context.Context, id int64) (*domain.CartItem, error)
	FindByProductIDForUpdate(ctx context.Context, productID int64) (*domain.CartItem, error)
	Insert(ctx context.Context, item *domain.CartItem) error
	UpdateQty(ctx context.Context, id int64, qty int, subtotal decimal.Decimal) error
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	Total(ctx context.Context) (decimal.Decimal, error)
}

type cartRepository struct {
	db Querier
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *cartRepository) WithTx(tx *sql.Tx) CartRepository {
	return &cartRepository{db: tx}
}

const cartSelect = `
	SELECT
		ci.id, ci.product_id, ci.qty, ci.subtotal, ci.created_at, ci.updated_at,
		p.name, p.description, p.price, p.image_url
	FROM cart_items ci
	JOIN products p ON ci.product_id = p.id
`

// FindAll retrieves every cart line joined with product detail, newest first
func (r *cartRepository) FindAll(ctx context.Context) ([]domain.CartItem, error) {
	return r.findAll(ctx, cartSelect+` ORDER BY ci.created_at DESC`)
}

// FindAllForUpdate is FindAll with the cart lines locked for the duration of
// the surrounding transaction. Used by checkout so no line can be mutated
// between reading the cart and clearing it.
func (r *cartRepository) FindAllForUpdate(ctx context.Context) ([]domain.CartItem, error) {
	return r.findAll(ctx, cartSelect+` ORDER BY ci.created_at DESC FOR UPDATE OF ci`)
}

func (r *cartRepository) findAll(ctx context.Context, query string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := r.scan(rows.Scan, &item); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// FindByID retrieves one cart line joined with product detail
func (r *cartRepository) FindByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	row := r.db.QueryRowContext(ctx, cartSelect+` WHERE ci.id = $1`, id)

	var item domain.CartItem
	if err := r.scan(row.Scan, &item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}

	return &item, nil
}

// FindByProductIDForUpdate retrieves the cart line for a product, if any,
// with a row lock. Concurrent add-to-cart calls for the same product are
// serialized on this lock so neither increment is lost.
func (r *cartRepository) FindByProductIDForUpdate(ctx context.Context, productID int64) (*domain.CartItem, error) {
	query := `
		SELECT id, product_id, qty, subtotal, created_at, updated_at
		FROM cart_items
		WHERE product_id = $1
		FOR UPDATE
	`

	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&item.ID,
		&item.ProductID,
		&item.Qty,
		&item.Subtotal,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item by product: %w", err)
	}

	return &item, nil
}

// Insert creates a new cart line and fills in its generated id and
// timestamps. The unique constraint on product_id fails loudly if a
// concurrent insert for the same product slipped past the lookup.
func (r *cartRepository) Insert(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (product_id, qty, subtotal)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, item.ProductID, item.Qty, item.Subtotal).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

// UpdateQty sets a line's quantity and recomputed subtotal
func (r *cartRepository) UpdateQty(ctx context.Context, id int64, qty int, subtotal decimal.Decimal) error {
	query := `
		UPDATE cart_items
		SET qty = $2, subtotal = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, qty, subtotal)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// Delete removes one cart line; returns false when no line had that id
func (r *cartRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteAll clears the cart and returns the number of deleted lines
func (r *cartRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Total sums the stored subtotals; an empty cart totals zero
func (r *cartRepository) Total(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, `SELECT SUM(subtotal) FROM cart_items`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute cart total: %w", err)
	}

	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal, nil
}

func (r *cartRepository) scan(scan func(dest ...any) error, item *domain.CartItem) error {
	return scan(
		&item.ID,
		&item.ProductID,
		&item.Qty,
		&item.Subtotal,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.ProductName,
		&item.ProductDescription,
		&item.ProductPrice,
		&item.ProductImageURL,
	)
}
