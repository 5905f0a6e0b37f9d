package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ReceiptRepository defines the interface for receipt data access.
// Receipts are append-only: they are created once and never mutated.
type ReceiptRepository interface {
	WithTx(tx *sql.Tx) ReceiptRepository
	Create(ctx context.Context, receipt *domain.Receipt) error
	FindByReceiptID(ctx context.Context, receiptID string) (*domain.Receipt, error)
	FindAll(ctx context.Context) ([]*domain.Receipt, error)
}

type receiptRepository struct {
	db Querier
}

// NewReceiptRepository creates a new instance of ReceiptRepository
func NewReceiptRepository(db *sql.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *receiptRepository) WithTx(tx *sql.Tx) ReceiptRepository {
	return &receiptRepository{db: tx}
}

// Create persists a receipt with its item snapshot serialized as JSONB.
// The unique index on receipt_id rejects a duplicate rather than
// overwriting an existing receipt.
func (r *receiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	itemsJSON, err := json.Marshal(receipt.Items)
	if err != nil {
		return fmt.Errorf("failed to encode receipt items: %w", err)
	}

	query := `
		INSERT INTO receipts (receipt_id, name, email, total, cart_items, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		receipt.ReceiptID,
		receipt.Name,
		receipt.Email,
		receipt.Total,
		itemsJSON,
		receipt.Timestamp,
	).Scan(&receipt.ID, &receipt.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	return nil
}

const receiptColumns = `id, receipt_id, name, email, total, cart_items, ts, created_at`

// FindByReceiptID retrieves a receipt by its public identifier
func (r *receiptRepository) FindByReceiptID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	query := fmt.Sprintf(`SELECT %s FROM receipts WHERE receipt_id = $1`, receiptColumns)

	receipt, err := r.scanOne(r.db.QueryRowContext(ctx, query, receiptID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to find receipt: %w", err)
	}

	return receipt, nil
}

// FindAll retrieves every receipt, newest first
func (r *receiptRepository) FindAll(ctx context.Context) ([]*domain.Receipt, error) {
	query := fmt.Sprintf(`SELECT %s FROM receipts ORDER BY ts DESC`, receiptColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	receipts := []*domain.Receipt{}
	for rows.Next() {
		receipt, err := r.scanOne(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	return receipts, nil
}

func (r *receiptRepository) scanOne(scan func(dest ...any) error) (*domain.Receipt, error) {
	receipt := &domain.Receipt{}
	var itemsJSON []byte

	err := scan(
		&receipt.ID,
		&receipt.ReceiptID,
		&receipt.Name,
		&receipt.Email,
		&receipt.Total,
		&itemsJSON,
		&receipt.Timestamp,
		&receipt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &receipt.Items); err != nil {
		return nil, fmt.Errorf("failed to decode receipt items: %w", err)
	}

	return receipt, nil
}
