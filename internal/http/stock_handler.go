package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type createPurchaseRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	SupplierName  string          `json:"supplier_name" validate:"required,max=255"`
	Quantity      int64           `json:"quantity" validate:"gt=0"`
	Price         decimal.Decimal `json:"price" validate:"dgte=0"`
	Date          *string         `json:"date"`
	InvoiceNumber *string         `json:"invoice_number" validate:"omitempty,max=100"`
	Notes         *string         `json:"notes"`
}

type createSaleRequest struct {
	ProductID     string           `json:"product_id" validate:"required,uuid"`
	CustomerName  string           `json:"customer_name" validate:"required,max=255"`
	Quantity      int64            `json:"quantity" validate:"gt=0"`
	SalePrice     decimal.Decimal  `json:"sale_price" validate:"dgte=0"`
	PurchasePrice decimal.Decimal  `json:"purchase_price" validate:"dgte=0"`
	Due           *decimal.Decimal `json:"due" validate:"omitempty,dgte=0"`
	Date          *string          `json:"date"`
	Notes         *string          `json:"notes"`
}

type stockHandler struct {
	stockSvc  service.StockService
	validator *validator.DefaultValidator
}

func newStockHandler(stockSvc service.StockService, v *validator.DefaultValidator) *stockHandler {
	return &stockHandler{
		stockSvc:  stockSvc,
		validator: v,
	}
}

func (h *stockHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) error {
	var body createPurchaseRequest
	if err := decodeBody(w, r, h.validator, &body); err != nil {
		return err
	}
	date, err := parseEntryDate(body.Date)
	if err != nil {
		return err
	}

	purchase, err := h.stockSvc.CreatePurchase(r.Context(), service.CreatePurchaseParams{
		ProductID:     body.ProductID,
		SupplierName:  body.SupplierName,
		Quantity:      body.Quantity,
		Price:         body.Price,
		Date:          date,
		InvoiceNumber: body.InvoiceNumber,
		Notes:         body.Notes,
	})
	if err != nil {
		return fmt.Errorf("stock service create purchase: %w", err)
	}

	writeJSON(w, http.StatusCreated, purchase)
	return nil
}

func (h *stockHandler) CreateSale(w http.ResponseWriter, r *http.Request) error {
	var body createSaleRequest
	if err := decodeBody(w, r, h.validator, &body); err != nil {
		return err
	}
	date, err := parseEntryDate(body.Date)
	if err != nil {
		return err
	}

	sale, err := h.stockSvc.CreateSale(r.Context(), service.CreateSaleParams{
		ProductID:     body.ProductID,
		CustomerName:  body.CustomerName,
		Quantity:      body.Quantity,
		SalePrice:     body.SalePrice,
		PurchasePrice: body.PurchasePrice,
		Due:           body.Due,
		Date:          date,
		Notes:         body.Notes,
	})
	if err != nil {
		return fmt.Errorf("stock service create sale: %w", err)
	}

	writeJSON(w, http.StatusCreated, sale)
	return nil
}

func (h *stockHandler) GetPurchase(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	purchase, err := h.stockSvc.GetPurchase(r.Context(), id)
	if err != nil {
		return fmt.Errorf("stock service get purchase: %w", err)
	}

	writeJSON(w, http.StatusOK, purchase)
	return nil
}

func (h *stockHandler) GetSale(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	sale, err := h.stockSvc.GetSale(r.Context(), id)
	if err != nil {
		return fmt.Errorf("stock service get sale: %w", err)
	}

	writeJSON(w, http.StatusOK, sale)
	return nil
}
