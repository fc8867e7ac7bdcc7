package event

import (
	"time"
)

const (
	TopicPurchaseCreated = "stock.purchase.created"
	TopicSaleCreated     = "stock.sale.created"
	TopicProductRemoved  = "product.removed"
)

// StockMovedEvent is published for every ledger entry that changed stock.
// Money fields are decimal strings.
type StockMovedEvent struct {
	LedgerID      string    `json:"ledger_id"`
	ProductID     string    `json:"product_id"`
	Sku           string    `json:"sku"`
	Counterparty  string    `json:"counterparty"`
	QuantityDelta int64     `json:"quantity_delta"`
	QuantityAfter int64     `json:"quantity_after"`
	Total         string    `json:"total"`
	Date          time.Time `json:"date"`
}

type ProductRemovedEvent struct {
	ProductID        string `json:"product_id"`
	Sku              string `json:"sku"`
	SalesDeleted     int64  `json:"sales_deleted"`
	PurchasesDeleted int64  `json:"purchases_deleted"`
}
