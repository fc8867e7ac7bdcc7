package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type createProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Sku         string          `json:"sku" validate:"required,sku"`
	Quantity    int64           `json:"quantity" validate:"gte=0"`
	Price       decimal.Decimal `json:"price" validate:"dgte=0"`
	Description *string         `json:"description"`
	Category    *string         `json:"category" validate:"omitempty,max=100"`
	ImageURL    *string         `json:"image_url" validate:"omitempty,url"`
}

type updateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Sku         *string          `json:"sku" validate:"omitempty,sku"`
	Quantity    *int64           `json:"quantity" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,dgte=0"`
	Description *string          `json:"description"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
}

type productHandler struct {
	productSvc service.ProductService
	reportSvc  service.ReportService
	validator  *validator.DefaultValidator
}

func newProductHandler(
	productSvc service.ProductService,
	reportSvc service.ReportService,
	v *validator.DefaultValidator,
) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		reportSvc:  reportSvc,
		validator:  v,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	search, err := queryParam[string](r, "search")
	if err != nil {
		return err
	}
	page, err := queryParam[int](r, "page")
	if err != nil {
		return err
	}
	pageSize, err := queryParam[int](r, "page_size")
	if err != nil {
		return err
	}

	res, err := h.productSvc.ListProducts(r.Context(), service.ListProductsParams{
		Search:   search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var body createProductRequest
	if err := decodeBody(w, r, h.validator, &body); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:        body.Name,
		Sku:         body.Sku,
		Quantity:    body.Quantity,
		Price:       body.Price,
		Description: body.Description,
		Category:    body.Category,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	writeJSON(w, http.StatusCreated, product)
	return nil
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

func (h *productHandler) GetProductBySku(w http.ResponseWriter, r *http.Request) error {
	sku, err := pathParam(r, "sku")
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProductBySku(r.Context(), sku)
	if err != nil {
		return fmt.Errorf("product service get product by sku: %w", err)
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	var body updateProductRequest
	if err := decodeBody(w, r, h.validator, &body); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
		ID:          id,
		Name:        body.Name,
		Sku:         body.Sku,
		Quantity:    body.Quantity,
		Price:       body.Price,
		Description: body.Description,
		Category:    body.Category,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	writeJSON(w, http.StatusOK, product)
	return nil
}

func (h *productHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	if err := h.productSvc.RemoveProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service remove product: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *productHandler) ProductStats(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}
	startDate, err := queryParam[string](r, "start_date")
	if err != nil {
		return err
	}
	endDate, err := queryParam[string](r, "end_date")
	if err != nil {
		return err
	}

	stats, err := h.reportSvc.ProductStats(r.Context(), service.ProductStatsParams{
		ProductID: id,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return fmt.Errorf("report service product stats: %w", err)
	}

	writeJSON(w, http.StatusOK, stats)
	return nil
}
