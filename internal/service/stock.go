package service

import (
	"context"
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

type CreatePurchaseParams struct {
	ProductID     string
	SupplierName  string
	Quantity      int64
	Price         decimal.Decimal
	Date          *time.Time
	InvoiceNumber *string
	Notes         *string
}

type CreateSaleParams struct {
	ProductID     string
	CustomerName  string
	Quantity      int64
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	Due           *decimal.Decimal
	Date          *time.Time
	Notes         *string
}

// StockService records ledger entries. Every entry moves the referenced
// product's quantity in the same transaction as the ledger insert.
type StockService interface {
	CreatePurchase(ctx context.Context, params CreatePurchaseParams) (model.Purchase, error)
	// CreateSale fails with InsufficientStockErr, leaving stock untouched,
	// when the product holds fewer units than requested.
	CreateSale(ctx context.Context, params CreateSaleParams) (model.Sale, error)
	GetPurchase(ctx context.Context, id string) (model.Purchase, error)
	GetSale(ctx context.Context, id string) (model.Sale, error)
}

type stockService struct {
	db            db.DB
	logger        *slog.Logger
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
	purchaseRepo  repository.PurchaseRepository
	outboxMsgRepo repository.OutboxMsgRepository
	reportCache   *cache.ReportCache

	now func() time.Time
}

func NewStockService(
	db db.DB,
	logger *slog.Logger,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	reportCache *cache.ReportCache,
) StockService {
	return &stockService{
		db:            db,
		logger:        logger.With(slog.String("service", "stock")),
		productRepo:   productRepo,
		saleRepo:      saleRepo,
		purchaseRepo:  purchaseRepo,
		outboxMsgRepo: outboxMsgRepo,
		reportCache:   reportCache,
		now:           time.Now,
	}
}

func (s *stockService) CreatePurchase(ctx context.Context, params CreatePurchaseParams) (model.Purchase, error) {
	productID, err := parseProductID(params.ProductID)
	if err != nil {
		return model.Purchase{}, err
	}
	supplier, err := requireText("supplier name", params.SupplierName)
	if err != nil {
		return model.Purchase{}, err
	}
	if err := requirePositive("quantity", params.Quantity); err != nil {
		return model.Purchase{}, err
	}
	if err := requireNonNegative("price", params.Price); err != nil {
		return model.Purchase{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Purchase{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.now().UTC()
	purchase := model.Purchase{
		ID:            id,
		ProductID:     productID,
		SupplierName:  supplier,
		Quantity:      params.Quantity,
		Price:         params.Price,
		Total:         model.PurchaseTotal(params.Quantity, params.Price),
		Date:          entryDate(params.Date, now),
		InvoiceNumber: trimOptional(params.InvoiceNumber),
		Notes:         trimOptional(params.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		product, err = s.productRepo.WithDB(db).IncrementQuantity(ctx, productID, purchase.Quantity)
		if err != nil {
			return fmt.Errorf("product repository increment quantity: %w", err)
		}

		if err := s.purchaseRepo.WithDB(db).CreatePurchase(ctx, purchase); err != nil {
			return fmt.Errorf("purchase repository create purchase: %w", err)
		}

		msg, err := newOutboxMsg(ctx, event.TopicPurchaseCreated, productID.String(), event.StockMovedEvent{
			LedgerID:      purchase.ID.String(),
			ProductID:     productID.String(),
			Sku:           product.Sku,
			Counterparty:  purchase.SupplierName,
			QuantityDelta: purchase.Quantity,
			QuantityAfter: product.Quantity,
			Total:         purchase.Total.String(),
			Date:          purchase.Date,
		})
		if err != nil {
			return err
		}

		if err := s.outboxMsgRepo.WithDB(db).CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Purchase{}, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "purchase recorded",
		slog.String("purchase_id", purchase.ID.String()),
		slog.String("product_id", productID.String()),
		slog.Int64("quantity_delta", purchase.Quantity),
		slog.Int64("quantity_after", product.Quantity),
	)
	s.bumpReportCache(ctx)

	return purchase, nil
}

func (s *stockService) CreateSale(ctx context.Context, params CreateSaleParams) (model.Sale, error) {
	productID, err := parseProductID(params.ProductID)
	if err != nil {
		return model.Sale{}, err
	}
	customer, err := requireText("customer name", params.CustomerName)
	if err != nil {
		return model.Sale{}, err
	}
	if err := requirePositive("quantity", params.Quantity); err != nil {
		return model.Sale{}, err
	}
	if err := requireNonNegative("sale price", params.SalePrice); err != nil {
		return model.Sale{}, err
	}
	if err := requireNonNegative("purchase price", params.PurchasePrice); err != nil {
		return model.Sale{}, err
	}
	due := decimal.Zero
	if params.Due != nil {
		due = *params.Due
	}
	if err := requireNonNegative("due", due); err != nil {
		return model.Sale{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Sale{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.now().UTC()
	sale := model.Sale{
		ID:            id,
		ProductID:     productID,
		CustomerName:  customer,
		Quantity:      params.Quantity,
		SalePrice:     params.SalePrice,
		PurchasePrice: params.PurchasePrice,
		Total:         model.SaleTotal(params.Quantity, params.SalePrice),
		Profit:        model.SaleProfit(params.Quantity, params.SalePrice, params.PurchasePrice),
		Due:           due,
		Date:          entryDate(params.Date, now),
		Notes:         trimOptional(params.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		// Conditional decrement: the stock check and the write are one statement.
		product, err = s.productRepo.WithDB(db).DecrementQuantity(ctx, productID, sale.Quantity)
		if err != nil {
			return fmt.Errorf("product repository decrement quantity: %w", err)
		}

		if err := s.saleRepo.WithDB(db).CreateSale(ctx, sale); err != nil {
			return fmt.Errorf("sale repository create sale: %w", err)
		}

		msg, err := newOutboxMsg(ctx, event.TopicSaleCreated, productID.String(), event.StockMovedEvent{
			LedgerID:      sale.ID.String(),
			ProductID:     productID.String(),
			Sku:           product.Sku,
			Counterparty:  sale.CustomerName,
			QuantityDelta: -sale.Quantity,
			QuantityAfter: product.Quantity,
			Total:         sale.Total.String(),
			Date:          sale.Date,
		})
		if err != nil {
			return err
		}

		if err := s.outboxMsgRepo.WithDB(db).CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Sale{}, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", sale.ID.String()),
		slog.String("product_id", productID.String()),
		slog.Int64("quantity_delta", -sale.Quantity),
		slog.Int64("quantity_after", product.Quantity),
	)
	s.bumpReportCache(ctx)

	return sale, nil
}

func (s *stockService) GetPurchase(ctx context.Context, id string) (model.Purchase, error) {
	purchaseID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return model.Purchase{}, apperr.ValidationErr.WithMsg("invalid purchase id").WrapParent(err)
	}

	purchase, err := s.purchaseRepo.GetPurchase(ctx, purchaseID)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("purchase repository get purchase: %w", err)
	}

	return purchase, nil
}

func (s *stockService) GetSale(ctx context.Context, id string) (model.Sale, error) {
	saleID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return model.Sale{}, apperr.ValidationErr.WithMsg("invalid sale id").WrapParent(err)
	}

	sale, err := s.saleRepo.GetSale(ctx, saleID)
	if err != nil {
		return model.Sale{}, fmt.Errorf("sale repository get sale: %w", err)
	}

	return sale, nil
}

func (s *stockService) bumpReportCache(ctx context.Context) {
	if err := s.reportCache.Bump(ctx); err != nil {
		s.logger.WarnContext(ctx, "error bumping report cache", slog.Any("error", err))
	}
}

// entryDate defaults a ledger date to now and stores it in UTC.
func entryDate(date *time.Time, now time.Time) time.Time {
	if date == nil || date.IsZero() {
		return now
	}
	return date.UTC()
}
