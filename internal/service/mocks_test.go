package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// --- stub sql driver -------------------------------------------------------
//
// The services open real database/sql transactions around their repository
// calls. The stub driver provides a *sql.DB whose Begin/Commit/Rollback are
// no-ops, so service logic can be exercised against in-memory repositories.

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (stubConn) Close() error                              { return nil }
func (stubConn) Begin() (driver.Tx, error)                 { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var (
	stubOnce sync.Once
	stubDB   *sql.DB
)

func newStubDB() *sql.DB {
	stubOnce.Do(func() {
		sql.Register("servicestub", stubDriver{})
		stubDB, _ = sql.Open("servicestub", "")
	})
	return stubDB
}

// --- in-memory repositories ------------------------------------------------

type mockProductRepository struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product), nextID: 1}
}

func (m *mockProductRepository) WithTx(tx *sql.Tx) repository.ProductRepository { return m }

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.nextID
	m.nextID++
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return m.FindByID(ctx, id)
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		copied := *p
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	return products, nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	return m.List(ctx)
}

type mockCartRepository struct {
	mu       sync.Mutex
	items    map[int64]*domain.CartItem
	nextID   int64
	products *mockProductRepository
}

func newMockCartRepository(products *mockProductRepository) *mockCartRepository {
	return &mockCartRepository{items: make(map[int64]*domain.CartItem), nextID: 1, products: products}
}

func (m *mockCartRepository) WithTx(tx *sql.Tx) repository.CartRepository { return m }

func (m *mockCartRepository) join(item domain.CartItem) domain.CartItem {
	if product, ok := m.products.products[item.ProductID]; ok {
		item.ProductName = product.Name
		item.ProductDescription = product.Description
		item.ProductPrice = product.Price
		item.ProductImageURL = product.ImageURL
	}
	return item
}

func (m *mockCartRepository) FindAll(ctx context.Context) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]domain.CartItem, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, m.join(*item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (m *mockCartRepository) FindAllForUpdate(ctx context.Context) ([]domain.CartItem, error) {
	return m.FindAll(ctx)
}

func (m *mockCartRepository) FindByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	joined := m.join(*item)
	return &joined, nil
}

func (m *mockCartRepository) FindByProductIDForUpdate(ctx context.Context, productID int64) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (m *mockCartRepository) Insert(ctx context.Context, item *domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.nextID
	m.nextID++
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockCartRepository) UpdateQty(ctx context.Context, id int64, qty int, subtotal decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return repository.ErrCartItemNotFound
	}
	item.Qty = qty
	item.Subtotal = subtotal
	item.UpdatedAt = time.Now()
	return nil
}

func (m *mockCartRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *mockCartRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := int64(len(m.items))
	m.items = make(map[int64]*domain.CartItem)
	return count, nil
}

func (m *mockCartRepository) Total(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.Subtotal)
	}
	return total, nil
}

type mockReceiptRepository struct {
	mu       sync.Mutex
	receipts map[string]*domain.Receipt
	nextID   int64
}

func newMockReceiptRepository() *mockReceiptRepository {
	return &mockReceiptRepository{receipts: make(map[string]*domain.Receipt), nextID: 1}
}

func (m *mockReceiptRepository) WithTx(tx *sql.Tx) repository.ReceiptRepository { return m }

func (m *mockReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt.ID = m.nextID
	m.nextID++
	receipt.CreatedAt = time.Now()
	copied := *receipt
	copied.Items = append([]domain.ReceiptItem(nil), receipt.Items...)
	m.receipts[receipt.ReceiptID] = &copied
	return nil
}

func (m *mockReceiptRepository) FindByReceiptID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[receiptID]
	if !ok {
		return nil, repository.ErrReceiptNotFound
	}
	copied := *receipt
	copied.Items = append([]domain.ReceiptItem(nil), receipt.Items...)
	return &copied, nil
}

func (m *mockReceiptRepository) FindAll(ctx context.Context) ([]*domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipts := make([]*domain.Receipt, 0, len(m.receipts))
	for _, receipt := range m.receipts {
		copied := *receipt
		copied.Items = append([]domain.ReceiptItem(nil), receipt.Items...)
		receipts = append(receipts, &copied)
	}
	sort.Slice(receipts, func(i, j int) bool { return receipts[i].Timestamp > receipts[j].Timestamp })
	return receipts, nil
}
