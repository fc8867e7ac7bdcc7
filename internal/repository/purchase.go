package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

const purchaseColumns = `id, product_id, supplier_name, quantity, price, total, date, invoice_number, notes, deleted, created_at, updated_at`

type PurchaseRepository interface {
	WithDB(db db.DB) PurchaseRepository
	CreatePurchase(ctx context.Context, purchase model.Purchase) error
	GetPurchase(ctx context.Context, id uuid.UUID) (model.Purchase, error)
	SoftDeletePurchasesByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	ListPurchases(ctx context.Context, filter LedgerFilter, page PageParams) ([]model.Purchase, error)
	CountPurchases(ctx context.Context, filter LedgerFilter) (int64, error)
	SummarizePurchases(ctx context.Context, filter LedgerFilter) (model.PurchasesSummary, error)
	DailyPurchaseQuantities(ctx context.Context, filter LedgerFilter) (map[string]int64, error)
}

type purchaseRepository struct {
	db db.DB
}

func NewPurchaseRepository(db db.DB) PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

func (r purchaseRepository) WithDB(db db.DB) PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

func (r purchaseRepository) CreatePurchase(ctx context.Context, purchase model.Purchase) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES (@id, @product_id, @supplier_name, @quantity, @price, @total, @date, @invoice_number, @notes, FALSE, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":             purchase.ID,
		"product_id":     purchase.ProductID,
		"supplier_name":  purchase.SupplierName,
		"quantity":       purchase.Quantity,
		"price":          toNumeric(purchase.Price),
		"total":          toNumeric(purchase.Total),
		"date":           purchase.Date,
		"invoice_number": purchase.InvoiceNumber,
		"notes":          purchase.Notes,
		"created_at":     purchase.CreatedAt,
		"updated_at":     purchase.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	return nil
}

func (r purchaseRepository) GetPurchase(ctx context.Context, id uuid.UUID) (model.Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE id = @id AND NOT deleted
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Purchase{}, fmt.Errorf("query purchase: %w", err)
	}

	purchase, err := pgx.CollectExactlyOneRow(rows, scanPurchase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Purchase{}, apperr.PurchaseNotFoundErr
		}
		return model.Purchase{}, fmt.Errorf("collect purchase: %w", err)
	}

	return purchase, nil
}

func (r purchaseRepository) SoftDeletePurchasesByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE purchases
		SET deleted = TRUE, updated_at = NOW()
		WHERE product_id = @product_id AND NOT deleted
	`, pgx.NamedArgs{"product_id": productID})
	if err != nil {
		return 0, fmt.Errorf("soft delete purchases: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r purchaseRepository) ListPurchases(ctx context.Context, filter LedgerFilter, page PageParams) ([]model.Purchase, error) {
	where, args := filter.where("supplier_name", false)
	args["limit"] = page.Limit
	args["offset"] = page.Offset

	rows, err := r.db.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		`+where+`
		ORDER BY date DESC, id DESC
		LIMIT @limit OFFSET @offset
	`, args)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	purchases, err := pgx.CollectRows(rows, scanPurchase)
	if err != nil {
		return nil, fmt.Errorf("collect purchases: %w", err)
	}

	return purchases, nil
}

func (r purchaseRepository) CountPurchases(ctx context.Context, filter LedgerFilter) (int64, error) {
	where, args := filter.where("supplier_name", false)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchases `+where, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}

	return count, nil
}

func (r purchaseRepository) SummarizePurchases(ctx context.Context, filter LedgerFilter) (model.PurchasesSummary, error) {
	where, args := filter.where("supplier_name", false)

	var (
		summary model.PurchasesSummary
		total   pgtype.Numeric
	)
	if err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total), 0),
			COALESCE(SUM(quantity), 0)::bigint
		FROM purchases
		`+where, args).Scan(&total, &summary.TotalQuantity); err != nil {
		return model.PurchasesSummary{}, fmt.Errorf("summarize purchases: %w", err)
	}

	var err error
	if summary.TotalMoney, err = fromNumeric(total); err != nil {
		return model.PurchasesSummary{}, fmt.Errorf("convert total: %w", err)
	}

	return summary, nil
}

func (r purchaseRepository) DailyPurchaseQuantities(ctx context.Context, filter LedgerFilter) (map[string]int64, error) {
	where, args := filter.where("supplier_name", false)

	rows, err := r.db.Query(ctx, `
		SELECT to_char(date AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, SUM(quantity)::bigint
		FROM purchases
		`+where+`
		GROUP BY day
	`, args)
	if err != nil {
		return nil, fmt.Errorf("group purchases by day: %w", err)
	}

	return collectDailyQuantities(rows)
}

func scanPurchase(row pgx.CollectableRow) (model.Purchase, error) {
	var (
		p            model.Purchase
		price, total pgtype.Numeric
	)
	if err := row.Scan(
		&p.ID,
		&p.ProductID,
		&p.SupplierName,
		&p.Quantity,
		&price,
		&total,
		&p.Date,
		&p.InvoiceNumber,
		&p.Notes,
		&p.Deleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return model.Purchase{}, err
	}

	var err error
	if p.Price, err = fromNumeric(price); err != nil {
		return model.Purchase{}, fmt.Errorf("convert price: %w", err)
	}
	if p.Total, err = fromNumeric(total); err != nil {
		return model.Purchase{}, fmt.Errorf("convert total: %w", err)
	}

	return p, nil
}
