package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/cache"
	"github.com/tuanvumaihuynh/stock-ledger/internal/event"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

type CreateProductParams struct {
	Name        string
	Sku         string
	Quantity    int64
	Price       decimal.Decimal
	Description *string
	Category    *string
	ImageURL    *string
}

// UpdateProductParams holds a partial update; nil fields are left unchanged.
type UpdateProductParams struct {
	ID          string
	Name        *string
	Sku         *string
	Quantity    *int64
	Price       *decimal.Decimal
	Description *string
	Category    *string
	ImageURL    *string
}

type ListProductsParams struct {
	Search   string
	Page     int
	PageSize int
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	GetProductBySku(ctx context.Context, sku string) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	// RemoveProduct soft-deletes the product and every sale and purchase that
	// references it. Stored ledger amounts are left untouched.
	RemoveProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, params ListProductsParams) (model.Page[model.Product], error)
}

type productService struct {
	db            db.DB
	logger        *slog.Logger
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
	purchaseRepo  repository.PurchaseRepository
	outboxMsgRepo repository.OutboxMsgRepository
	reportCache   *cache.ReportCache

	now func() time.Time
}

func NewProductService(
	db db.DB,
	logger *slog.Logger,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	reportCache *cache.ReportCache,
) ProductService {
	return &productService{
		db:            db,
		logger:        logger.With(slog.String("service", "product")),
		productRepo:   productRepo,
		saleRepo:      saleRepo,
		purchaseRepo:  purchaseRepo,
		outboxMsgRepo: outboxMsgRepo,
		reportCache:   reportCache,
		now:           time.Now,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	name, err := requireText("name", params.Name)
	if err != nil {
		return model.Product{}, err
	}
	sku, err := requireText("sku", params.Sku)
	if err != nil {
		return model.Product{}, err
	}
	if params.Quantity < 0 {
		return model.Product{}, apperr.Validation("quantity must be greater than or equal to 0")
	}
	if err := requireNonNegative("price", params.Price); err != nil {
		return model.Product{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.now().UTC()
	product := model.Product{
		ID:          id,
		Name:        name,
		Sku:         sku,
		Quantity:    params.Quantity,
		Price:       params.Price,
		Description: trimOptional(params.Description),
		Category:    trimOptional(params.Category),
		ImageURL:    trimOptional(params.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Pre-check only; uq_products_sku still guards concurrent creates.
	_, err = s.productRepo.GetProductBySku(ctx, sku)
	switch {
	case err == nil:
		return model.Product{}, apperr.SkuConflictErr
	case !errors.Is(err, apperr.ProductNotFoundErr):
		return model.Product{}, fmt.Errorf("product repository get product by sku: %w", err)
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (model.Product, error) {
	productID, err := parseProductID(id)
	if err != nil {
		return model.Product{}, err
	}

	product, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) GetProductBySku(ctx context.Context, sku string) (model.Product, error) {
	sku, err := requireText("sku", sku)
	if err != nil {
		return model.Product{}, err
	}

	product, err := s.productRepo.GetProductBySku(ctx, sku)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product by sku: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	productID, err := parseProductID(params.ID)
	if err != nil {
		return model.Product{}, err
	}

	update := repository.UpdateProductParams{
		ID:          productID,
		Quantity:    params.Quantity,
		Description: params.Description,
		Category:    params.Category,
		ImageURL:    params.ImageURL,
		UpdatedAt:   s.now().UTC(),
	}

	if params.Name != nil {
		name, err := requireText("name", *params.Name)
		if err != nil {
			return model.Product{}, err
		}
		update.Name = &name
	}
	if params.Sku != nil {
		sku, err := requireText("sku", *params.Sku)
		if err != nil {
			return model.Product{}, err
		}
		update.Sku = &sku
	}
	if params.Quantity != nil && *params.Quantity < 0 {
		return model.Product{}, apperr.Validation("quantity must be greater than or equal to 0")
	}
	if params.Price != nil {
		if err := requireNonNegative("price", *params.Price); err != nil {
			return model.Product{}, err
		}
		update.Price = params.Price
	}

	product, err := s.productRepo.UpdateProduct(ctx, update)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository update product: %w", err)
	}

	if params.Quantity != nil {
		s.bumpReportCache(ctx)
	}

	return product, nil
}

func (s *productService) RemoveProduct(ctx context.Context, id string) error {
	productID, err := parseProductID(id)
	if err != nil {
		return err
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		product, err := s.productRepo.WithDB(db).GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("product repository get product: %w", err)
		}

		if err := s.productRepo.
			WithDB(db).
			SoftDeleteProduct(ctx, productID, s.now().UTC()); err != nil {
			return fmt.Errorf("product repository soft delete product: %w", err)
		}

		salesDeleted, err := s.saleRepo.WithDB(db).SoftDeleteSalesByProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("sale repository soft delete sales: %w", err)
		}

		purchasesDeleted, err := s.purchaseRepo.WithDB(db).SoftDeletePurchasesByProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("purchase repository soft delete purchases: %w", err)
		}

		msg, err := newOutboxMsg(ctx, event.TopicProductRemoved, product.ID.String(), event.ProductRemovedEvent{
			ProductID:        product.ID.String(),
			Sku:              product.Sku,
			SalesDeleted:     salesDeleted,
			PurchasesDeleted: purchasesDeleted,
		})
		if err != nil {
			return err
		}

		if err := s.outboxMsgRepo.WithDB(db).CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	s.bumpReportCache(ctx)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) (model.Page[model.Product], error) {
	p := newPagination(params.Page, params.PageSize)
	search := strings.TrimSpace(params.Search)

	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Search: search,
		Limit:  p.params().Limit,
		Offset: p.params().Offset,
	})
	if err != nil {
		return model.Page[model.Product]{}, fmt.Errorf("product repository list products: %w", err)
	}

	total, err := s.productRepo.CountProducts(ctx, search)
	if err != nil {
		return model.Page[model.Product]{}, fmt.Errorf("product repository count products: %w", err)
	}

	return model.Page[model.Product]{
		Items:      products,
		TotalCount: total,
		Page:       p.page,
		PageSize:   p.pageSize,
		TotalPages: p.totalPages(total),
	}, nil
}

// bumpReportCache runs after commit. Failures are logged and cached reports
// expire with their TTL.
func (s *productService) bumpReportCache(ctx context.Context) {
	if err := s.reportCache.Bump(ctx); err != nil {
		s.logger.WarnContext(ctx, "error bumping report cache", slog.Any("error", err))
	}
}
