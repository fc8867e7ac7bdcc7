package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

type ledgerHandler struct {
	querySvc service.LedgerQueryService
}

func newLedgerHandler(querySvc service.LedgerQueryService) *ledgerHandler {
	return &ledgerHandler{querySvc: querySvc}
}

// ledgerQuery binds the listing filters. counterparty names the query
// parameter that filters on customer or supplier.
func ledgerQuery(r *http.Request, counterparty string) (service.LedgerQueryParams, error) {
	var (
		params service.LedgerQueryParams
		err    error
	)

	if params.StartDate, err = queryParam[string](r, "start_date"); err != nil {
		return params, err
	}
	if params.EndDate, err = queryParam[string](r, "end_date"); err != nil {
		return params, err
	}
	if params.ProductID, err = queryParam[string](r, "product_id"); err != nil {
		return params, err
	}
	if params.Counterparty, err = queryParam[string](r, counterparty); err != nil {
		return params, err
	}
	if params.Page, err = queryParam[int](r, "page"); err != nil {
		return params, err
	}
	if params.PageSize, err = queryParam[int](r, "page_size"); err != nil {
		return params, err
	}

	return params, nil
}

func (h *ledgerHandler) ListSales(w http.ResponseWriter, r *http.Request) error {
	params, err := ledgerQuery(r, "customer_name")
	if err != nil {
		return err
	}

	page, err := h.querySvc.ListSales(r.Context(), params)
	if err != nil {
		return fmt.Errorf("ledger query service list sales: %w", err)
	}

	writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *ledgerHandler) ListPurchases(w http.ResponseWriter, r *http.Request) error {
	params, err := ledgerQuery(r, "supplier_name")
	if err != nil {
		return err
	}

	page, err := h.querySvc.ListPurchases(r.Context(), params)
	if err != nil {
		return fmt.Errorf("ledger query service list purchases: %w", err)
	}

	writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *ledgerHandler) ListDues(w http.ResponseWriter, r *http.Request) error {
	params, err := ledgerQuery(r, "customer_name")
	if err != nil {
		return err
	}

	page, err := h.querySvc.ListDues(r.Context(), params)
	if err != nil {
		return fmt.Errorf("ledger query service list dues: %w", err)
	}

	writeJSON(w, http.StatusOK, page)
	return nil
}
