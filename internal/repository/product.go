package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

const skuUniqueIndex = "uq_products_sku"

const productColumns = `id, name, sku, quantity, price, description, category, image_url, created_at, updated_at, deleted_at`

type UpdateProductParams struct {
	ID          uuid.UUID
	Name        *string
	Sku         *string
	Quantity    *int64
	Price       *decimal.Decimal
	Description *string
	Category    *string
	ImageURL    *string
	UpdatedAt   time.Time
}

type ListProductsParams struct {
	Search string
	Limit  int32
	Offset int32
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	GetProductBySku(ctx context.Context, sku string) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID, deletedAt time.Time) error
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	CountProducts(ctx context.Context, search string) (int64, error)

	// IncrementQuantity adds n to the stock of a live product in one statement.
	IncrementQuantity(ctx context.Context, id uuid.UUID, n int64) (model.Product, error)
	// DecrementQuantity subtracts n only if the current stock is at least n.
	// The check and the write are a single conditional UPDATE.
	DecrementQuantity(ctx context.Context, id uuid.UUID, n int64) (model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, sku, quantity, price, description, category, image_url, created_at, updated_at)
		VALUES (@id, @name, @sku, @quantity, @price, @description, @category, @image_url, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":          product.ID,
		"name":        product.Name,
		"sku":         product.Sku,
		"quantity":    product.Quantity,
		"price":       toNumeric(product.Price),
		"description": product.Description,
		"category":    product.Category,
		"image_url":   product.ImageURL,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	})
	if err != nil {
		if db.IsUniqueViolation(err, skuUniqueIndex) {
			return apperr.SkuConflictErr.WrapParent(err)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = @id AND deleted_at IS NULL
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	return collectOneProduct(rows)
}

func (r productRepository) GetProductBySku(ctx context.Context, sku string) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE sku = @sku AND deleted_at IS NULL
	`, pgx.NamedArgs{"sku": sku})
	if err != nil {
		return model.Product{}, fmt.Errorf("query product by sku: %w", err)
	}

	return collectOneProduct(rows)
}

func (r productRepository) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	var price *pgtype.Numeric
	if params.Price != nil {
		n := toNumeric(*params.Price)
		price = &n
	}

	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET
			name        = COALESCE(@name, name),
			sku         = COALESCE(@sku, sku),
			quantity    = COALESCE(@quantity, quantity),
			price       = COALESCE(@price, price),
			description = COALESCE(@description, description),
			category    = COALESCE(@category, category),
			image_url   = COALESCE(@image_url, image_url),
			updated_at  = @updated_at
		WHERE id = @id AND deleted_at IS NULL
		RETURNING `+productColumns,
		pgx.NamedArgs{
			"id":          params.ID,
			"name":        params.Name,
			"sku":         params.Sku,
			"quantity":    params.Quantity,
			"price":       price,
			"description": params.Description,
			"category":    params.Category,
			"image_url":   params.ImageURL,
			"updated_at":  params.UpdatedAt,
		})
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	product, err := collectOneProduct(rows)
	if err != nil && db.IsUniqueViolation(err, skuUniqueIndex) {
		return model.Product{}, apperr.SkuConflictErr.WrapParent(err)
	}
	return product, err
}

func (r productRepository) SoftDeleteProduct(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET deleted_at = @deleted_at, updated_at = @deleted_at
		WHERE id = @id AND deleted_at IS NULL
	`, pgx.NamedArgs{
		"id":         id,
		"deleted_at": deletedAt,
	})
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE deleted_at IS NULL
			AND (@search::text = '' OR name ILIKE '%' || @search || '%' OR sku ILIKE '%' || @search || '%')
		ORDER BY name ASC, id ASC
		LIMIT @limit OFFSET @offset
	`, pgx.NamedArgs{
		"search": escapeLike(params.Search),
		"limit":  params.Limit,
		"offset": params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	return products, nil
}

func (r productRepository) CountProducts(ctx context.Context, search string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM products
		WHERE deleted_at IS NULL
			AND (@search::text = '' OR name ILIKE '%' || @search || '%' OR sku ILIKE '%' || @search || '%')
	`, pgx.NamedArgs{"search": escapeLike(search)}).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r productRepository) IncrementQuantity(ctx context.Context, id uuid.UUID, n int64) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET quantity = quantity + @n, updated_at = NOW()
		WHERE id = @id AND deleted_at IS NULL
		RETURNING `+productColumns,
		pgx.NamedArgs{"id": id, "n": n})
	if err != nil {
		return model.Product{}, fmt.Errorf("increment quantity: %w", err)
	}

	return collectOneProduct(rows)
}

func (r productRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, n int64) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE products
		SET quantity = quantity - @n, updated_at = NOW()
		WHERE id = @id AND deleted_at IS NULL AND quantity >= @n
		RETURNING `+productColumns,
		pgx.NamedArgs{"id": id, "n": n})
	if err != nil {
		return model.Product{}, fmt.Errorf("decrement quantity: %w", err)
	}

	product, err := collectOneProduct(rows)
	if !errors.Is(err, apperr.ProductNotFoundErr) {
		return product, err
	}

	// No row matched: tell a missing product apart from a short one.
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM products WHERE id = @id AND deleted_at IS NULL)
	`, pgx.NamedArgs{"id": id}).Scan(&exists); err != nil {
		return model.Product{}, fmt.Errorf("check product exists: %w", err)
	}
	if exists {
		return model.Product{}, apperr.InsufficientStockErr
	}

	return model.Product{}, apperr.ProductNotFoundErr
}

func collectOneProduct(rows pgx.Rows) (model.Product, error) {
	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return product, nil
}

func scanProduct(row pgx.CollectableRow) (model.Product, error) {
	var (
		p     model.Product
		price pgtype.Numeric
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Sku,
		&p.Quantity,
		&price,
		&p.Description,
		&p.Category,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	); err != nil {
		return model.Product{}, err
	}

	var err error
	if p.Price, err = fromNumeric(price); err != nil {
		return model.Product{}, fmt.Errorf("convert price: %w", err)
	}

	return p, nil
}
