package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/daterange"
)

// LedgerQueryParams filters a sales, purchases or dues listing. Omitted dates
// fall back to the bounds of the current calendar month.
type LedgerQueryParams struct {
	StartDate    string
	EndDate      string
	ProductID    string
	Counterparty string
	Page         int
	PageSize     int
}

// LedgerQueryService serves paged ledger views. The aggregate of each page
// covers the whole filtered set.
type LedgerQueryService interface {
	ListSales(ctx context.Context, params LedgerQueryParams) (model.Page[model.Sale], error)
	ListPurchases(ctx context.Context, params LedgerQueryParams) (model.Page[model.Purchase], error)
	// ListDues lists sales with an unpaid portion.
	ListDues(ctx context.Context, params LedgerQueryParams) (model.Page[model.Sale], error)
}

type ledgerQueryService struct {
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository

	now func() time.Time
}

func NewLedgerQueryService(
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
) LedgerQueryService {
	return &ledgerQueryService{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		now:          time.Now,
	}
}

func (s *ledgerQueryService) ListSales(ctx context.Context, params LedgerQueryParams) (model.Page[model.Sale], error) {
	return s.listSales(ctx, params, false)
}

func (s *ledgerQueryService) ListDues(ctx context.Context, params LedgerQueryParams) (model.Page[model.Sale], error) {
	return s.listSales(ctx, params, true)
}

func (s *ledgerQueryService) listSales(ctx context.Context, params LedgerQueryParams, dueOnly bool) (model.Page[model.Sale], error) {
	filter, err := s.ledgerFilter(params)
	if err != nil {
		return model.Page[model.Sale]{}, err
	}
	filter.DueOnly = dueOnly
	p := newPagination(params.Page, params.PageSize)

	var (
		sales   []model.Sale
		total   int64
		summary model.SalesSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if sales, err = s.saleRepo.ListSales(gctx, filter, p.params()); err != nil {
			return fmt.Errorf("sale repository list sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if total, err = s.saleRepo.CountSales(gctx, filter); err != nil {
			return fmt.Errorf("sale repository count sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if summary, err = s.saleRepo.SummarizeSales(gctx, filter); err != nil {
			return fmt.Errorf("sale repository summarize sales: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Page[model.Sale]{}, err
	}

	if sales == nil {
		sales = []model.Sale{}
	}

	return model.Page[model.Sale]{
		Items:      sales,
		TotalCount: total,
		Page:       p.page,
		PageSize:   p.pageSize,
		TotalPages: p.totalPages(total),
		Aggregate: &model.LedgerAggregate{
			Quantity: summary.TotalQuantity,
			Total:    summary.TotalMoney,
			Profit:   &summary.TotalProfit,
			Due:      &summary.TotalDues,
		},
	}, nil
}

func (s *ledgerQueryService) ListPurchases(ctx context.Context, params LedgerQueryParams) (model.Page[model.Purchase], error) {
	filter, err := s.ledgerFilter(params)
	if err != nil {
		return model.Page[model.Purchase]{}, err
	}
	p := newPagination(params.Page, params.PageSize)

	var (
		purchases []model.Purchase
		total     int64
		summary   model.PurchasesSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if purchases, err = s.purchaseRepo.ListPurchases(gctx, filter, p.params()); err != nil {
			return fmt.Errorf("purchase repository list purchases: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if total, err = s.purchaseRepo.CountPurchases(gctx, filter); err != nil {
			return fmt.Errorf("purchase repository count purchases: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if summary, err = s.purchaseRepo.SummarizePurchases(gctx, filter); err != nil {
			return fmt.Errorf("purchase repository summarize purchases: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Page[model.Purchase]{}, err
	}

	if purchases == nil {
		purchases = []model.Purchase{}
	}

	return model.Page[model.Purchase]{
		Items:      purchases,
		TotalCount: total,
		Page:       p.page,
		PageSize:   p.pageSize,
		TotalPages: p.totalPages(total),
		Aggregate: &model.LedgerAggregate{
			Quantity: summary.TotalQuantity,
			Total:    summary.TotalMoney,
		},
	}, nil
}

// ledgerFilter resolves the window and the product filter. Each missing bound
// defaults independently to the current month, and start > end is checked
// after widening to whole days.
func (s *ledgerQueryService) ledgerFilter(params LedgerQueryParams) (repository.LedgerFilter, error) {
	month := daterange.Month(s.now())
	start, end := month.Start, month.End

	if raw := strings.TrimSpace(params.StartDate); raw != "" {
		t, err := daterange.ParseDate(raw)
		if err != nil {
			return repository.LedgerFilter{}, apperr.InvalidDateRangeErr.WithMsg("invalid start date").WrapParent(err)
		}
		start = t
	}
	if raw := strings.TrimSpace(params.EndDate); raw != "" {
		t, err := daterange.ParseDate(raw)
		if err != nil {
			return repository.LedgerFilter{}, apperr.InvalidDateRangeErr.WithMsg("invalid end date").WrapParent(err)
		}
		end = t
	}

	window, err := daterange.New(start, end)
	if err != nil {
		return repository.LedgerFilter{}, apperr.InvalidDateRangeErr.WrapParent(err)
	}

	productID, err := parseOptionalProductID(params.ProductID)
	if err != nil {
		return repository.LedgerFilter{}, err
	}

	return repository.LedgerFilter{
		Start:        window.Start,
		End:          window.End,
		ProductID:    productID,
		Counterparty: strings.TrimSpace(params.Counterparty),
	}, nil
}
