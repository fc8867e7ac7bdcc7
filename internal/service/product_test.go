package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/event"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/ptr"
)

func TestProductService_CreateProduct(t *testing.T) {
	f := newFixture(fixedNow)
	ctx := context.Background()

	product, err := f.products.CreateProduct(ctx, CreateProductParams{
		Name:     " Blue Mug ",
		Sku:      "MUG-001",
		Quantity: 10,
		Price:    dec("4.50"),
		Category: ptr.New("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Blue Mug", product.Name)
	assert.Nil(t, product.Category)
	assert.Equal(t, fixedNow, product.CreatedAt)

	_, err = f.products.CreateProduct(ctx, CreateProductParams{Name: "Other", Sku: "MUG-001"})
	require.ErrorIs(t, err, apperr.SkuConflictErr)

	_, err = f.products.CreateProduct(ctx, CreateProductParams{Name: "", Sku: "X"})
	require.ErrorIs(t, err, apperr.ValidationErr)

	_, err = f.products.CreateProduct(ctx, CreateProductParams{Name: "A", Sku: "Y", Quantity: -1})
	require.ErrorIs(t, err, apperr.ValidationErr)

	got, err := f.products.GetProductBySku(ctx, "MUG-001")
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

type skuLookupFailure struct {
	fakeProductRepo
	err error
}

func (r skuLookupFailure) GetProductBySku(context.Context, string) (model.Product, error) {
	return model.Product{}, r.err
}

func TestProductService_CreateProduct_SkuLookupFailure(t *testing.T) {
	f := newFixture(fixedNow)
	errConn := errors.New("connection reset")
	f.products.productRepo = skuLookupFailure{fakeProductRepo: fakeProductRepo{f.store}, err: errConn}

	_, err := f.products.CreateProduct(context.Background(), CreateProductParams{Name: "Mug", Sku: "MUG-001", Price: dec("1")})
	require.ErrorIs(t, err, errConn)
	assert.NotErrorIs(t, err, apperr.SkuConflictErr)
	assert.Empty(t, f.store.products)
}

func TestProductService_UpdateProduct(t *testing.T) {
	f := newFixture(fixedNow)
	p := f.store.addProduct(5, "1")

	updated, err := f.products.UpdateProduct(context.Background(), UpdateProductParams{
		ID:    p.ID.String(),
		Name:  ptr.New("Renamed"),
		Price: ptr.New(dec("2.25")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, dec("2.25").Equal(updated.Price))
	assert.Equal(t, int64(5), updated.Quantity)

	_, err = f.products.UpdateProduct(context.Background(), UpdateProductParams{
		ID:       p.ID.String(),
		Quantity: ptr.New(int64(-3)),
	})
	require.ErrorIs(t, err, apperr.ValidationErr)
}

func TestProductService_RemoveProduct_Cascades(t *testing.T) {
	f := newFixture(fixedNow)
	ctx := context.Background()
	p := f.store.addProduct(100, "10")
	other := f.store.addProduct(100, "10")

	sale := seedSale(t, f, p, 5, day(2, 0), "Jane", "1")
	purchase := seedPurchase(t, f, p, 7, day(2, 0))
	otherSale := seedSale(t, f, other, 1, day(2, 0), "Bob", "0")

	require.NoError(t, f.products.RemoveProduct(ctx, p.ID.String()))

	_, err := f.products.GetProduct(ctx, p.ID.String())
	require.ErrorIs(t, err, apperr.ProductNotFoundErr)

	storedSale := f.store.sales[sale.ID]
	assert.True(t, storedSale.Deleted)
	assert.True(t, sale.Total.Equal(storedSale.Total))
	assert.True(t, sale.Profit.Equal(storedSale.Profit))
	assert.Equal(t, sale.Quantity, storedSale.Quantity)
	assert.True(t, f.store.purchases[purchase.ID].Deleted)
	assert.False(t, f.store.sales[otherSale.ID].Deleted)
	assert.Equal(t, int64(99), f.store.product(other.ID).Quantity)

	last := f.store.outbox[len(f.store.outbox)-1]
	assert.Equal(t, event.TopicProductRemoved, last.Topic)

	page, err := f.queries.ListSales(ctx, LedgerQueryParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	err = f.products.RemoveProduct(ctx, p.ID.String())
	require.ErrorIs(t, err, apperr.ProductNotFoundErr)

	// The SKU of a removed product is free again.
	_, err = f.products.CreateProduct(ctx, CreateProductParams{Name: "Again", Sku: p.Sku})
	require.NoError(t, err)
}

func TestProductService_ListProducts(t *testing.T) {
	f := newFixture(fixedNow)
	for range 12 {
		f.store.addProduct(1, "1")
	}

	page, err := f.products.ListProducts(context.Background(), ListProductsParams{Page: 2, PageSize: 5, Search: "wid"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(12), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Nil(t, page.Aggregate)
}
