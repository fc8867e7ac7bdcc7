package service

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/log"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/daterange"
)

// memStore is an in-memory stand-in for the Postgres tables. WithTx restores
// a snapshot when the transaction function fails.
type memStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]model.Product
	sales     map[uuid.UUID]model.Sale
	purchases map[uuid.UUID]model.Purchase
	outbox    []repository.CreateOutboxMsgParams

	// calls counts repository reads so tests can assert the store was untouched.
	calls int

	txMu       sync.Mutex
	failOutbox error
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[uuid.UUID]model.Product{},
		sales:     map[uuid.UUID]model.Sale{},
		purchases: map[uuid.UUID]model.Purchase{},
	}
}

func (s *memStore) addProduct(qty int64, price string) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.Product{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "Widget",
		Sku:      "WID-" + uuid.NewString()[:8],
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) product(id uuid.UUID) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeDB implements only WithTx; repositories never reach the embedded DB.
type fakeDB struct {
	db.DB
	store *memStore
}

func (f *fakeDB) WithTx(_ context.Context, fn func(db.DB) error) error {
	f.store.txMu.Lock()
	defer f.store.txMu.Unlock()

	f.store.mu.Lock()
	products := maps.Clone(f.store.products)
	sales := maps.Clone(f.store.sales)
	purchases := maps.Clone(f.store.purchases)
	outbox := slices.Clone(f.store.outbox)
	f.store.mu.Unlock()

	if err := fn(f); err != nil {
		f.store.mu.Lock()
		f.store.products, f.store.sales, f.store.purchases, f.store.outbox = products, sales, purchases, outbox
		f.store.mu.Unlock()
		return err
	}
	return nil
}

type fakeProductRepo struct{ s *memStore }

func (r fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r fakeProductRepo) CreateProduct(_ context.Context, product model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.DeletedAt == nil && p.Sku == product.Sku {
			return apperr.SkuConflictErr
		}
	}
	r.s.products[product.ID] = product
	return nil
}

func (r fakeProductRepo) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls++
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	return p, nil
}

func (r fakeProductRepo) GetProductBySku(_ context.Context, sku string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.DeletedAt == nil && p.Sku == sku {
			return p, nil
		}
	}
	return model.Product{}, apperr.ProductNotFoundErr
}

func (r fakeProductRepo) UpdateProduct(_ context.Context, params repository.UpdateProductParams) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[params.ID]
	if !ok || p.DeletedAt != nil {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Sku != nil {
		p.Sku = *params.Sku
	}
	if params.Quantity != nil {
		p.Quantity = *params.Quantity
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	p.UpdatedAt = params.UpdatedAt
	r.s.products[p.ID] = p
	return p, nil
}

func (r fakeProductRepo) SoftDeleteProduct(_ context.Context, id uuid.UUID, deletedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return apperr.ProductNotFoundErr
	}
	p.DeletedAt = &deletedAt
	r.s.products[id] = p
	return nil
}

func (r fakeProductRepo) liveProducts(search string) []model.Product {
	var out []model.Product
	search = strings.ToLower(search)
	for _, p := range r.s.products {
		if p.DeletedAt != nil {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Sku), search) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	return out
}

func (r fakeProductRepo) ListProducts(_ context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return pageOf(r.liveProducts(params.Search), repository.PageParams{Limit: params.Limit, Offset: params.Offset}), nil
}

func (r fakeProductRepo) CountProducts(_ context.Context, search string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.liveProducts(search))), nil
}

func (r fakeProductRepo) IncrementQuantity(_ context.Context, id uuid.UUID, n int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	p.Quantity += n
	r.s.products[id] = p
	return p, nil
}

func (r fakeProductRepo) DecrementQuantity(_ context.Context, id uuid.UUID, n int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	if p.Quantity < n {
		return model.Product{}, apperr.InsufficientStockErr
	}
	p.Quantity -= n
	r.s.products[id] = p
	return p, nil
}

func matches(f repository.LedgerFilter, productID uuid.UUID, counterparty string, date time.Time, deleted bool) bool {
	if deleted || date.Before(f.Start) || date.After(f.End) {
		return false
	}
	if f.ProductID != nil && *f.ProductID != productID {
		return false
	}
	if f.Counterparty != "" && !strings.Contains(strings.ToLower(counterparty), strings.ToLower(f.Counterparty)) {
		return false
	}
	return true
}

func pageOf[T any](items []T, page repository.PageParams) []T {
	start := min(int(page.Offset), len(items))
	end := min(start+int(page.Limit), len(items))
	return items[start:end]
}

type fakeSaleRepo struct{ s *memStore }

func (r fakeSaleRepo) WithDB(db.DB) repository.SaleRepository { return r }

func (r fakeSaleRepo) CreateSale(_ context.Context, sale model.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales[sale.ID] = sale
	return nil
}

func (r fakeSaleRepo) GetSale(_ context.Context, id uuid.UUID) (model.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.Deleted {
		return model.Sale{}, apperr.SaleNotFoundErr
	}
	return sale, nil
}

func (r fakeSaleRepo) SoftDeleteSalesByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sale := range r.s.sales {
		if sale.ProductID == productID && !sale.Deleted {
			sale.Deleted = true
			r.s.sales[id] = sale
			n++
		}
	}
	return n, nil
}

func (r fakeSaleRepo) filtered(f repository.LedgerFilter) []model.Sale {
	r.s.calls++
	var out []model.Sale
	for _, sale := range r.s.sales {
		if !matches(f, sale.ProductID, sale.CustomerName, sale.Date, sale.Deleted) {
			continue
		}
		if f.DueOnly && !sale.Due.IsPositive() {
			continue
		}
		out = append(out, sale)
	}
	slices.SortFunc(out, func(a, b model.Sale) int {
		return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(b.ID.String(), a.ID.String()))
	})
	return out
}

func (r fakeSaleRepo) ListSales(_ context.Context, f repository.LedgerFilter, page repository.PageParams) ([]model.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return pageOf(r.filtered(f), page), nil
}

func (r fakeSaleRepo) CountSales(_ context.Context, f repository.LedgerFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(f))), nil
}

func (r fakeSaleRepo) SummarizeSales(_ context.Context, f repository.LedgerFilter) (model.SalesSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := model.SalesSummary{TotalMoney: decimal.Zero, TotalProfit: decimal.Zero, TotalDues: decimal.Zero}
	for _, sale := range r.filtered(f) {
		sum.TotalMoney = sum.TotalMoney.Add(sale.Total)
		sum.TotalProfit = sum.TotalProfit.Add(sale.Profit)
		sum.TotalDues = sum.TotalDues.Add(sale.Due)
		sum.TotalQuantity += sale.Quantity
	}
	return sum, nil
}

func (r fakeSaleRepo) DailySaleQuantities(_ context.Context, f repository.LedgerFilter) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	days := map[string]int64{}
	for _, sale := range r.filtered(f) {
		days[daterange.DayKey(sale.Date)] += sale.Quantity
	}
	return days, nil
}

type fakePurchaseRepo struct{ s *memStore }

func (r fakePurchaseRepo) WithDB(db.DB) repository.PurchaseRepository { return r }

func (r fakePurchaseRepo) CreatePurchase(_ context.Context, purchase model.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.purchases[purchase.ID] = purchase
	return nil
}

func (r fakePurchaseRepo) GetPurchase(_ context.Context, id uuid.UUID) (model.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	purchase, ok := r.s.purchases[id]
	if !ok || purchase.Deleted {
		return model.Purchase{}, apperr.PurchaseNotFoundErr
	}
	return purchase, nil
}

func (r fakePurchaseRepo) SoftDeletePurchasesByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, purchase := range r.s.purchases {
		if purchase.ProductID == productID && !purchase.Deleted {
			purchase.Deleted = true
			r.s.purchases[id] = purchase
			n++
		}
	}
	return n, nil
}

func (r fakePurchaseRepo) filtered(f repository.LedgerFilter) []model.Purchase {
	r.s.calls++
	var out []model.Purchase
	for _, purchase := range r.s.purchases {
		if matches(f, purchase.ProductID, purchase.SupplierName, purchase.Date, purchase.Deleted) {
			out = append(out, purchase)
		}
	}
	slices.SortFunc(out, func(a, b model.Purchase) int {
		return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(b.ID.String(), a.ID.String()))
	})
	return out
}

func (r fakePurchaseRepo) ListPurchases(_ context.Context, f repository.LedgerFilter, page repository.PageParams) ([]model.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return pageOf(r.filtered(f), page), nil
}

func (r fakePurchaseRepo) CountPurchases(_ context.Context, f repository.LedgerFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(f))), nil
}

func (r fakePurchaseRepo) SummarizePurchases(_ context.Context, f repository.LedgerFilter) (model.PurchasesSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := model.PurchasesSummary{TotalMoney: decimal.Zero}
	for _, purchase := range r.filtered(f) {
		sum.TotalMoney = sum.TotalMoney.Add(purchase.Total)
		sum.TotalQuantity += purchase.Quantity
	}
	return sum, nil
}

func (r fakePurchaseRepo) DailyPurchaseQuantities(_ context.Context, f repository.LedgerFilter) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	days := map[string]int64{}
	for _, purchase := range r.filtered(f) {
		days[daterange.DayKey(purchase.Date)] += purchase.Quantity
	}
	return days, nil
}

type fakeOutboxMsgRepo struct{ s *memStore }

func (r fakeOutboxMsgRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r fakeOutboxMsgRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failOutbox != nil {
		return r.s.failOutbox
	}
	r.s.outbox = append(r.s.outbox, params)
	return nil
}

func (r fakeOutboxMsgRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r fakeOutboxMsgRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

type fixture struct {
	store    *memStore
	products *productService
	stock    *stockService
	reports  *reportService
	queries  *ledgerQueryService
}

func newFixture(now time.Time) fixture {
	store := newMemStore()
	fdb := &fakeDB{store: store}
	clock := func() time.Time { return now }

	return fixture{
		store: store,
		products: &productService{
			db: fdb, logger: log.Discard(),
			productRepo: fakeProductRepo{store}, saleRepo: fakeSaleRepo{store},
			purchaseRepo: fakePurchaseRepo{store}, outboxMsgRepo: fakeOutboxMsgRepo{store},
			now: clock,
		},
		stock: &stockService{
			db: fdb, logger: log.Discard(),
			productRepo: fakeProductRepo{store}, saleRepo: fakeSaleRepo{store},
			purchaseRepo: fakePurchaseRepo{store}, outboxMsgRepo: fakeOutboxMsgRepo{store},
			now: clock,
		},
		reports: &reportService{
			productRepo: fakeProductRepo{store}, saleRepo: fakeSaleRepo{store},
			purchaseRepo: fakePurchaseRepo{store}, now: clock,
		},
		queries: &ledgerQueryService{
			saleRepo: fakeSaleRepo{store}, purchaseRepo: fakePurchaseRepo{store}, now: clock,
		},
	}
}
