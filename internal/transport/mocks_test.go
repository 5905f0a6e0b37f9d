package transport

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/shopspring/decimal"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func productInputOf(name string, price decimal.Decimal) service.ProductInput {
	return service.ProductInput{Name: name, Price: price}
}

// assertAmount compares a decoded JSON money field (decimals marshal as
// quoted strings) against an expected decimal literal.
func assertAmount(t *testing.T, got any, want string) {
	t.Helper()
	raw, ok := got.(string)
	if !ok {
		t.Fatalf("expected a string amount, got %T (%v)", got, got)
	}
	gotDec, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("bad amount %q: %v", raw, err)
	}
	wantDec, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expected amount %q: %v", want, err)
	}
	if !gotDec.Equal(wantDec) {
		t.Errorf("expected amount %s, got %s", wantDec, gotDec)
	}
}

// In-memory service stubs for handler testing. They replicate the service
// contracts (error sentinels, total recomputation, cart clearing on
// checkout) without a database.

type stubCatalogService struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newStubCatalogService() *stubCatalogService {
	return &stubCatalogService{products: make(map[int64]*domain.Product), nextID: 1}
}

func (s *stubCatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(s.products))
	for _, product := range s.products {
		copied := *product
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *stubCatalogService) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.ListProducts(ctx)
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, in service.ProductInput) (*domain.Product, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", service.ErrValidation)
	}
	product := &domain.Product{
		ID:          s.nextID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.nextID++
	s.products[product.ID] = product
	copied := *product
	return &copied, nil
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, id int64, in service.ProductUpdate) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative: %w", service.ErrValidation)
		}
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = time.Now()
	copied := *product
	return &copied, nil
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

type stubCartService struct {
	catalog *stubCatalogService
	items   map[int64]*domain.CartItem
	nextID  int64
}

func newStubCartService(catalog *stubCatalogService) *stubCartService {
	return &stubCartService{catalog: catalog, items: make(map[int64]*domain.CartItem), nextID: 1}
}

func (s *stubCartService) total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func (s *stubCartService) GetCartItems(ctx context.Context) (*domain.Cart, error) {
	items := make([]domain.CartItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return &domain.Cart{Items: items, Total: s.total()}, nil
}

func (s *stubCartService) AddToCart(ctx context.Context, productID int64, qty int) (*domain.CartItem, decimal.Decimal, error) {
	product, ok := s.catalog.products[productID]
	if !ok {
		return nil, decimal.Zero, repository.ErrProductNotFound
	}

	for _, item := range s.items {
		if item.ProductID == productID {
			item.Qty += qty
			item.Subtotal = product.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
			copied := *item
			return &copied, s.total(), nil
		}
	}

	item := &domain.CartItem{
		ID:           s.nextID,
		ProductID:    productID,
		Qty:          qty,
		Subtotal:     product.Price.Mul(decimal.NewFromInt(int64(qty))),
		ProductName:  product.Name,
		ProductPrice: product.Price,
	}
	s.nextID++
	s.items[item.ID] = item
	copied := *item
	return &copied, s.total(), nil
}

func (s *stubCartService) UpdateCartItem(ctx context.Context, id int64, qty int) (*domain.CartItem, decimal.Decimal, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, decimal.Zero, repository.ErrCartItemNotFound
	}
	item.Qty = qty
	item.Subtotal = item.ProductPrice.Mul(decimal.NewFromInt(int64(qty)))
	copied := *item
	return &copied, s.total(), nil
}

func (s *stubCartService) RemoveFromCart(ctx context.Context, id int64) (bool, decimal.Decimal, error) {
	if _, ok := s.items[id]; !ok {
		return false, s.total(), nil
	}
	delete(s.items, id)
	return true, s.total(), nil
}

func (s *stubCartService) ClearCart(ctx context.Context) (int64, error) {
	deleted := int64(len(s.items))
	s.items = make(map[int64]*domain.CartItem)
	return deleted, nil
}

type stubCheckoutService struct {
	cart     *stubCartService
	receipts map[string]*domain.Receipt
	seq      int
}

func newStubCheckoutService(cart *stubCartService) *stubCheckoutService {
	return &stubCheckoutService{cart: cart, receipts: make(map[string]*domain.Receipt)}
}

func (s *stubCheckoutService) ProcessCheckout(ctx context.Context, in service.CheckoutInput) (*domain.Receipt, error) {
	if len(s.cart.items) == 0 {
		return nil, service.ErrEmptyCart
	}

	if len(in.Manifest) > 0 {
		if len(in.Manifest) != len(s.cart.items) {
			return nil, fmt.Errorf("item count mismatch: %w", service.ErrCartMismatch)
		}
		byProduct := make(map[int64]*domain.CartItem, len(s.cart.items))
		for _, item := range s.cart.items {
			byProduct[item.ProductID] = item
		}
		for _, claimed := range in.Manifest {
			live, ok := byProduct[claimed.ProductID]
			if !ok {
				return nil, fmt.Errorf("product %d not found in cart: %w", claimed.ProductID, service.ErrCartMismatch)
			}
			if live.Qty != claimed.Qty {
				return nil, fmt.Errorf("quantity mismatch for product %d: %w", claimed.ProductID, service.ErrCartMismatch)
			}
		}
	}

	total := decimal.Zero
	items := make([]domain.ReceiptItem, 0, len(s.cart.items))
	for _, item := range s.cart.items {
		total = total.Add(item.Subtotal)
		items = append(items, domain.ReceiptItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Qty:          item.Qty,
			Subtotal:     item.Subtotal,
		})
	}

	s.seq++
	receipt := &domain.Receipt{
		ReceiptID: fmt.Sprintf("RCP-%d-STUB%04d", time.Now().UnixMilli(), s.seq),
		Name:      in.Name,
		Email:     in.Email,
		Total:     total,
		Items:     items,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	s.receipts[receipt.ReceiptID] = receipt
	s.cart.items = make(map[int64]*domain.CartItem)
	return receipt, nil
}

func (s *stubCheckoutService) GetReceipt(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	receipt, ok := s.receipts[receiptID]
	if !ok {
		return nil, repository.ErrReceiptNotFound
	}
	return receipt, nil
}

func (s *stubCheckoutService) GetAllReceipts(ctx context.Context) ([]domain.ReceiptSummary, error) {
	summaries := make([]domain.ReceiptSummary, 0, len(s.receipts))
	for _, receipt := range s.receipts {
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
