package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a stock-in ledger entry.
type Purchase struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	SupplierName  string          `json:"supplier_name"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	Date          time.Time       `json:"date"`
	InvoiceNumber *string         `json:"invoice_number,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Deleted       bool            `json:"deleted"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Sale is a stock-out ledger entry. PurchasePrice is the unit cost captured
// at sale time and is never refreshed from the catalog.
type Sale struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	CustomerName  string          `json:"customer_name"`
	Quantity      int64           `json:"quantity"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Total         decimal.Decimal `json:"total"`
	Profit        decimal.Decimal `json:"profit"`
	Due           decimal.Decimal `json:"due"`
	Date          time.Time       `json:"date"`
	Notes         *string         `json:"notes,omitempty"`
	Deleted       bool            `json:"deleted"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PurchaseTotal returns quantity × unit price.
func PurchaseTotal(quantity int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}

// SaleTotal returns quantity × sale price.
func SaleTotal(quantity int64, salePrice decimal.Decimal) decimal.Decimal {
	return salePrice.Mul(decimal.NewFromInt(quantity))
}

// SaleProfit returns quantity × (sale price − purchase price). It is negative
// when selling under cost.
func SaleProfit(quantity int64, salePrice, purchasePrice decimal.Decimal) decimal.Decimal {
	return salePrice.Sub(purchasePrice).Mul(decimal.NewFromInt(quantity))
}
