package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalesSummary struct {
	TotalMoney    decimal.Decimal `json:"total_sales_money"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	TotalDues     decimal.Decimal `json:"total_dues"`
	TotalQuantity int64           `json:"total_sale_quantity"`
}

type PurchasesSummary struct {
	TotalMoney    decimal.Decimal `json:"total_purchases_money"`
	TotalQuantity int64           `json:"total_purchase_quantity"`
}

// Report is the result of a windowed rollup. Dates, SalesData and
// PurchasesData are parallel and hold one entry per calendar day.
type Report struct {
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	Dates         []string         `json:"dates"`
	SalesData     []int64          `json:"sales_data"`
	PurchasesData []int64          `json:"purchases_data"`
	Sales         SalesSummary     `json:"sales"`
	Purchases     PurchasesSummary `json:"purchases"`
}

// ProductStats is the summary-only rollup for a single product.
type ProductStats struct {
	ProductID string           `json:"product_id"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	Sales     SalesSummary     `json:"sales"`
	Purchases PurchasesSummary `json:"purchases"`
}

// LedgerAggregate is computed over a whole filtered set. Profit and Due are
// nil for purchases.
type LedgerAggregate struct {
	Quantity int64            `json:"quantity"`
	Total    decimal.Decimal  `json:"total"`
	Profit   *decimal.Decimal `json:"profit,omitempty"`
	Due      *decimal.Decimal `json:"due,omitempty"`
}

// Page is one page of a filtered listing.
type Page[T any] struct {
	Items      []T              `json:"items"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Aggregate  *LedgerAggregate `json:"aggregate,omitempty"`
}
