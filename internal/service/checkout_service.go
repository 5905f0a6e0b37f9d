package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManifestItem is one entry of the optional client-supplied echo of the
// cart, used only to detect stale client state before checkout.
type ManifestItem struct {
	ProductID int64
	Qty       int
}

// CheckoutInput carries the checkout request
type CheckoutInput struct {
	Name     string
	Email    string
	Manifest []ManifestItem
}

// CheckoutService converts the current cart into an immutable receipt
type CheckoutService interface {
	ProcessCheckout(ctx context.Context, in CheckoutInput) (*domain.Receipt, error)
	GetReceipt(ctx context.Context, receiptID string) (*domain.Receipt, error)
	GetAllReceipts(ctx context.Context) ([]domain.ReceiptSummary, error)
}

type checkoutService struct {
	db          *sql.DB
	cartRepo    repository.CartRepository
	receiptRepo repository.ReceiptRepository
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(db *sql.DB, cartRepo repository.CartRepository, receiptRepo repository.ReceiptRepository) CheckoutService {
	return &checkoutService{
		db:          db,
		cartRepo:    cartRepo,
		receiptRepo: receiptRepo,
	}
}

// ProcessCheckout reads the live cart, validates the optional manifest
// against it, mints a receipt holding a by-value snapshot of the lines, and
// clears the cart. Read, validate, mint, and clear run in one transaction
// with the cart lines locked: a reader can never observe a receipt without
// the cleared cart or the other way round, and the total always matches the
// lines that were cleared.
func (s *checkoutService) ProcessCheckout(ctx context.Context, in CheckoutInput) (*domain.Receipt, error) {
	var receipt *domain.Receipt

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		cartRepo := s.cartRepo.WithTx(tx)
		receiptRepo := s.receiptRepo.WithTx(tx)

		items, err := cartRepo.FindAllForUpdate(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		if len(in.Manifest) > 0 {
			if err := validateManifest(items, in.Manifest); err != nil {
				return err
			}
		}

		total := decimal.Zero
		snapshot := make([]domain.ReceiptItem, 0, len(items))
		for _, item := range items {
			total = total.Add(item.Subtotal)
			snapshot = append(snapshot, domain.ReceiptItem{
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				ProductPrice: item.ProductPrice,
				Qty:          item.Qty,
				Subtotal:     item.Subtotal,
			})
		}

		now := time.Now().UTC()
		receipt = &domain.Receipt{
			ReceiptID: newReceiptID(now),
			Name:      in.Name,
			Email:     in.Email,
			Total:     total,
			Items:     snapshot,
			Timestamp: now.Format(time.RFC3339),
		}

		// The unique index on receipt_id is the collision backstop; no
		// retry loop, a duplicate fails the whole transaction.
		if err := receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}

		_, err = cartRepo.DeleteAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// GetReceipt returns one receipt by its public identifier
func (s *checkoutService) GetReceipt(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	if strings.TrimSpace(receiptID) == "" {
		return nil, fmt.Errorf("valid receipt id is required: %w", ErrValidation)
	}
	return s.receiptRepo.FindByReceiptID(ctx, receiptID)
}

// GetAllReceipts returns summaries of every receipt, newest first
func (s *checkoutService) GetAllReceipts(ctx context.Context) ([]domain.ReceiptSummary, error) {
	receipts, err := s.receiptRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ReceiptSummary, 0, len(receipts))
	for _, receipt := range receipts {
		summaries = append(summaries, domain.ReceiptSummary{
			ReceiptID:  receipt.ReceiptID,
			Name:       receipt.Name,
			Email:      receipt.Email,
			Total:      receipt.Total,
			Timestamp:  receipt.Timestamp,
			ItemsCount: len(receipt.Items),
		})
	}

	return summaries, nil
}

// validateManifest checks the client's echo of the cart against the live
// lines: same line count, and every claimed line must exist with an
// identical quantity. The manifest is advisory only; totals are always
// computed server-side.
func validateManifest(items []domain.CartItem, manifest []ManifestItem) error {
	if len(items) != len(manifest) {
		return fmt.Errorf("item count mismatch: %w", ErrCartMismatch)
	}

	byProduct := make(map[int64]domain.CartItem, len(items))
	for _, item := range items {
		byProduct[item.ProductID] = item
	}

	for _, claimed := range manifest {
		live, ok := byProduct[claimed.ProductID]
		if !ok {
			return fmt.Errorf("product %d not found in cart: %w", claimed.ProductID, ErrCartMismatch)
		}
		if live.Qty != claimed.Qty {
			return fmt.Errorf("quantity mismatch for product %d: %w", claimed.ProductID, ErrCartMismatch)
		}
	}

	return nil
}

// newReceiptID builds a human-readable identifier from a millisecond
// timestamp and a short random token, e.g. RCP-1735689600000-9F3A01BC.
func newReceiptID(now time.Time) string {
	token := strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
	return fmt.Sprintf("RCP-%d-%s", now.UnixMilli(), token)
}
