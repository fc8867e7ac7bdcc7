package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/cache"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/daterange"
)

// MaxReportDays bounds the daily series of one report, about ten years.
const MaxReportDays = 3660

type GenerateReportParams struct {
	// StartDate and EndDate are calendar days or timestamps. When both are
	// empty the report covers the current calendar month.
	StartDate string
	EndDate   string
	ProductID string
}

type ProductStatsParams struct {
	ProductID string
	StartDate string
	EndDate   string
}

type ReportService interface {
	GenerateReport(ctx context.Context, params GenerateReportParams) (model.Report, error)
	ProductStats(ctx context.Context, params ProductStatsParams) (model.ProductStats, error)
}

type reportService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	reportCache  *cache.ReportCache

	now func() time.Time
}

func NewReportService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	reportCache *cache.ReportCache,
) ReportService {
	return &reportService{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		reportCache:  reportCache,
		now:          time.Now,
	}
}

func (s *reportService) GenerateReport(ctx context.Context, params GenerateReportParams) (model.Report, error) {
	window, err := s.reportWindow(params.StartDate, params.EndDate)
	if err != nil {
		return model.Report{}, err
	}
	if window.DayCount() > MaxReportDays {
		return model.Report{}, apperr.InvalidDateRangeErr.WithMsg(
			fmt.Sprintf("report window must not exceed %d days", MaxReportDays))
	}
	productID, err := parseOptionalProductID(params.ProductID)
	if err != nil {
		return model.Report{}, err
	}

	filter := repository.LedgerFilter{
		Start:     window.Start,
		End:       window.End,
		ProductID: productID,
	}

	scope := "all"
	if productID != nil {
		scope = productID.String()
	}

	report, err := cache.Fetch(ctx, s.reportCache, func(ctx context.Context) (model.Report, error) {
		return s.buildReport(ctx, window, filter)
	}, "report", daterange.DayKey(window.Start), daterange.DayKey(window.End), scope)
	if err != nil {
		return model.Report{}, err
	}

	return report, nil
}

func (s *reportService) buildReport(ctx context.Context, window daterange.Window, filter repository.LedgerFilter) (model.Report, error) {
	var (
		sales          model.SalesSummary
		purchases      model.PurchasesSummary
		salesByDay     map[string]int64
		purchasesByDay map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if sales, err = s.saleRepo.SummarizeSales(gctx, filter); err != nil {
			return fmt.Errorf("sale repository summarize sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if purchases, err = s.purchaseRepo.SummarizePurchases(gctx, filter); err != nil {
			return fmt.Errorf("purchase repository summarize purchases: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if salesByDay, err = s.saleRepo.DailySaleQuantities(gctx, filter); err != nil {
			return fmt.Errorf("sale repository daily sale quantities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if purchasesByDay, err = s.purchaseRepo.DailyPurchaseQuantities(gctx, filter); err != nil {
			return fmt.Errorf("purchase repository daily purchase quantities: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Report{}, err
	}

	dates, salesData, purchasesData := buildDailySeries(window, salesByDay, purchasesByDay)

	return model.Report{
		StartDate:     window.Start,
		EndDate:       window.End,
		Dates:         dates,
		SalesData:     salesData,
		PurchasesData: purchasesData,
		Sales:         sales,
		Purchases:     purchases,
	}, nil
}

func (s *reportService) ProductStats(ctx context.Context, params ProductStatsParams) (model.ProductStats, error) {
	productID, err := parseProductID(params.ProductID)
	if err != nil {
		return model.ProductStats{}, err
	}
	window, err := s.reportWindow(params.StartDate, params.EndDate)
	if err != nil {
		return model.ProductStats{}, err
	}

	if _, err := s.productRepo.GetProduct(ctx, productID); err != nil {
		return model.ProductStats{}, fmt.Errorf("product repository get product: %w", err)
	}

	filter := repository.LedgerFilter{
		Start:     window.Start,
		End:       window.End,
		ProductID: &productID,
	}

	return cache.Fetch(ctx, s.reportCache, func(ctx context.Context) (model.ProductStats, error) {
		stats := model.ProductStats{
			ProductID: productID.String(),
			StartDate: window.Start,
			EndDate:   window.End,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if stats.Sales, err = s.saleRepo.SummarizeSales(gctx, filter); err != nil {
				return fmt.Errorf("sale repository summarize sales: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if stats.Purchases, err = s.purchaseRepo.SummarizePurchases(gctx, filter); err != nil {
				return fmt.Errorf("purchase repository summarize purchases: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return model.ProductStats{}, err
		}

		return stats, nil
	}, "stats", productID.String(), daterange.DayKey(window.Start), daterange.DayKey(window.End))
}

// reportWindow parses both bounds and rejects start > end before widening
// the window to whole days.
func (s *reportService) reportWindow(rawStart, rawEnd string) (daterange.Window, error) {
	rawStart, rawEnd = strings.TrimSpace(rawStart), strings.TrimSpace(rawEnd)
	if rawStart == "" && rawEnd == "" {
		return daterange.Month(s.now()), nil
	}
	if rawStart == "" || rawEnd == "" {
		return daterange.Window{}, apperr.InvalidDateRangeErr.WithMsg("start date and end date are both required")
	}

	start, err := daterange.ParseDate(rawStart)
	if err != nil {
		return daterange.Window{}, apperr.InvalidDateRangeErr.WithMsg("invalid start date").WrapParent(err)
	}
	end, err := daterange.ParseDate(rawEnd)
	if err != nil {
		return daterange.Window{}, apperr.InvalidDateRangeErr.WithMsg("invalid end date").WrapParent(err)
	}
	if start.After(end) {
		return daterange.Window{}, apperr.InvalidDateRangeErr.WrapParent(daterange.ErrInvalidRange)
	}

	window, err := daterange.New(start, end)
	if err != nil {
		return daterange.Window{}, apperr.InvalidDateRangeErr.WrapParent(err)
	}

	return window, nil
}

// buildDailySeries turns sparse per-day sums into parallel arrays with one
// entry per day of window, ascending, zero on days without activity.
func buildDailySeries(window daterange.Window, salesByDay, purchasesByDay map[string]int64) ([]string, []int64, []int64) {
	n := window.DayCount()
	dates := make([]string, 0, n)
	salesData := make([]int64, 0, n)
	purchasesData := make([]int64, 0, n)

	for day := range window.Days() {
		key := daterange.DayKey(day)
		dates = append(dates, key)
		salesData = append(salesData, salesByDay[key])
		purchasesData = append(purchasesData, purchasesByDay[key])
	}

	return dates, salesData, purchasesData
}
