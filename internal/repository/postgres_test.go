package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

// newTestDB connects to TEST_POSTGRES_DSN, applies the migrations and empties
// every table. The session time zone is deliberately not UTC.
func newTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["timezone"] = "Asia/Ho_Chi_Minh"
	cfg.MaxConns = 16

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, _, err = db.Migrate(pool)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE sales, purchases, products, outbox_messages`)
	require.NoError(t, err)

	return db.NewClient(pool)
}

func seedProduct(t *testing.T, repo repository.ProductRepository, quantity int64) model.Product {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := model.Product{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "Widget",
		Sku:       "WID-" + uuid.NewString(),
		Quantity:  quantity,
		Price:     decimal.RequireFromString("10"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateProduct(context.Background(), p))
	return p
}

func seedSale(
	t *testing.T,
	repo repository.SaleRepository,
	productID uuid.UUID,
	quantity int64,
	date time.Time,
	customer, due string,
) model.Sale {
	t.Helper()

	salePrice := decimal.RequireFromString("10")
	purchasePrice := decimal.RequireFromString("8")
	s := model.Sale{
		ID:            uuid.Must(uuid.NewV7()),
		ProductID:     productID,
		CustomerName:  customer,
		Quantity:      quantity,
		SalePrice:     salePrice,
		PurchasePrice: purchasePrice,
		Total:         model.SaleTotal(quantity, salePrice),
		Profit:        model.SaleProfit(quantity, salePrice, purchasePrice),
		Due:           decimal.RequireFromString(due),
		Date:          date,
		CreatedAt:     date,
		UpdatedAt:     date,
	}
	require.NoError(t, repo.CreateSale(context.Background(), s))
	return s
}

func seedPurchase(t *testing.T, repo repository.PurchaseRepository, productID uuid.UUID, quantity int64, date time.Time) {
	t.Helper()

	price := decimal.RequireFromString("8")
	require.NoError(t, repo.CreatePurchase(context.Background(), model.Purchase{
		ID:           uuid.Must(uuid.NewV7()),
		ProductID:    productID,
		SupplierName: "Acme",
		Quantity:     quantity,
		Price:        price,
		Total:        model.PurchaseTotal(quantity, price),
		Date:         date,
		CreatedAt:    date,
		UpdatedAt:    date,
	}))
}
