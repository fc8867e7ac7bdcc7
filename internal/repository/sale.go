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

const saleColumns = `id, product_id, customer_name, quantity, sale_price, purchase_price, total, profit, due, date, notes, deleted, created_at, updated_at`

type SaleRepository interface {
	WithDB(db db.DB) SaleRepository
	CreateSale(ctx context.Context, sale model.Sale) error
	GetSale(ctx context.Context, id uuid.UUID) (model.Sale, error)
	SoftDeleteSalesByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	ListSales(ctx context.Context, filter LedgerFilter, page PageParams) ([]model.Sale, error)
	CountSales(ctx context.Context, filter LedgerFilter) (int64, error)
	SummarizeSales(ctx context.Context, filter LedgerFilter) (model.SalesSummary, error)
	// DailySaleQuantities returns summed quantity per UTC day key. Days
	// without sales are absent.
	DailySaleQuantities(ctx context.Context, filter LedgerFilter) (map[string]int64, error)
}

type saleRepository struct {
	db db.DB
}

func NewSaleRepository(db db.DB) SaleRepository {
	return &saleRepository{
		db: db,
	}
}

func (r saleRepository) WithDB(db db.DB) SaleRepository {
	return &saleRepository{
		db: db,
	}
}

func (r saleRepository) CreateSale(ctx context.Context, sale model.Sale) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES (@id, @product_id, @customer_name, @quantity, @sale_price, @purchase_price, @total, @profit, @due, @date, @notes, FALSE, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":             sale.ID,
		"product_id":     sale.ProductID,
		"customer_name":  sale.CustomerName,
		"quantity":       sale.Quantity,
		"sale_price":     toNumeric(sale.SalePrice),
		"purchase_price": toNumeric(sale.PurchasePrice),
		"total":          toNumeric(sale.Total),
		"profit":         toNumeric(sale.Profit),
		"due":            toNumeric(sale.Due),
		"date":           sale.Date,
		"notes":          sale.Notes,
		"created_at":     sale.CreatedAt,
		"updated_at":     sale.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

func (r saleRepository) GetSale(ctx context.Context, id uuid.UUID) (model.Sale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE id = @id AND NOT deleted
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Sale{}, fmt.Errorf("query sale: %w", err)
	}

	sale, err := pgx.CollectExactlyOneRow(rows, scanSale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Sale{}, apperr.SaleNotFoundErr
		}
		return model.Sale{}, fmt.Errorf("collect sale: %w", err)
	}

	return sale, nil
}

func (r saleRepository) SoftDeleteSalesByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE sales
		SET deleted = TRUE, updated_at = NOW()
		WHERE product_id = @product_id AND NOT deleted
	`, pgx.NamedArgs{"product_id": productID})
	if err != nil {
		return 0, fmt.Errorf("soft delete sales: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r saleRepository) ListSales(ctx context.Context, filter LedgerFilter, page PageParams) ([]model.Sale, error) {
	where, args := filter.where("customer_name", true)
	args["limit"] = page.Limit
	args["offset"] = page.Offset

	rows, err := r.db.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		`+where+`
		ORDER BY date DESC, id DESC
		LIMIT @limit OFFSET @offset
	`, args)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	sales, err := pgx.CollectRows(rows, scanSale)
	if err != nil {
		return nil, fmt.Errorf("collect sales: %w", err)
	}

	return sales, nil
}

func (r saleRepository) CountSales(ctx context.Context, filter LedgerFilter) (int64, error) {
	where, args := filter.where("customer_name", true)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales `+where, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}

	return count, nil
}

func (r saleRepository) SummarizeSales(ctx context.Context, filter LedgerFilter) (model.SalesSummary, error) {
	where, args := filter.where("customer_name", true)

	var (
		summary             model.SalesSummary
		total, profit, dues pgtype.Numeric
	)
	if err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total), 0),
			COALESCE(SUM(profit), 0),
			COALESCE(SUM(due), 0),
			COALESCE(SUM(quantity), 0)::bigint
		FROM sales
		`+where, args).Scan(&total, &profit, &dues, &summary.TotalQuantity); err != nil {
		return model.SalesSummary{}, fmt.Errorf("summarize sales: %w", err)
	}

	var err error
	if summary.TotalMoney, err = fromNumeric(total); err != nil {
		return model.SalesSummary{}, fmt.Errorf("convert total: %w", err)
	}
	if summary.TotalProfit, err = fromNumeric(profit); err != nil {
		return model.SalesSummary{}, fmt.Errorf("convert profit: %w", err)
	}
	if summary.TotalDues, err = fromNumeric(dues); err != nil {
		return model.SalesSummary{}, fmt.Errorf("convert dues: %w", err)
	}

	return summary, nil
}

func (r saleRepository) DailySaleQuantities(ctx context.Context, filter LedgerFilter) (map[string]int64, error) {
	where, args := filter.where("customer_name", true)

	rows, err := r.db.Query(ctx, `
		SELECT to_char(date AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, SUM(quantity)::bigint
		FROM sales
		`+where+`
		GROUP BY day
	`, args)
	if err != nil {
		return nil, fmt.Errorf("group sales by day: %w", err)
	}

	return collectDailyQuantities(rows)
}

func collectDailyQuantities(rows pgx.Rows) (map[string]int64, error) {
	defer rows.Close()

	days := make(map[string]int64)
	for rows.Next() {
		var (
			day      string
			quantity int64
		)
		if err := rows.Scan(&day, &quantity); err != nil {
			return nil, fmt.Errorf("scan daily quantity: %w", err)
		}
		days[day] += quantity
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily quantities: %w", err)
	}

	return days, nil
}

func scanSale(row pgx.CollectableRow) (model.Sale, error) {
	var (
		s                                            model.Sale
		salePrice, purchasePrice, total, profit, due pgtype.Numeric
	)
	if err := row.Scan(
		&s.ID,
		&s.ProductID,
		&s.CustomerName,
		&s.Quantity,
		&salePrice,
		&purchasePrice,
		&total,
		&profit,
		&due,
		&s.Date,
		&s.Notes,
		&s.Deleted,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return model.Sale{}, err
	}

	var err error
	if s.SalePrice, err = fromNumeric(salePrice); err != nil {
		return model.Sale{}, fmt.Errorf("convert sale price: %w", err)
	}
	if s.PurchasePrice, err = fromNumeric(purchasePrice); err != nil {
		return model.Sale{}, fmt.Errorf("convert purchase price: %w", err)
	}
	if s.Total, err = fromNumeric(total); err != nil {
		return model.Sale{}, fmt.Errorf("convert total: %w", err)
	}
	if s.Profit, err = fromNumeric(profit); err != nil {
		return model.Sale{}, fmt.Errorf("convert profit: %w", err)
	}
	if s.Due, err = fromNumeric(due); err != nil {
		return model.Sale{}, fmt.Errorf("convert due: %w", err)
	}

	return s, nil
}
