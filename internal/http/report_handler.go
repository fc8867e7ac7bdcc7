package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

type reportHandler struct {
	reportSvc service.ReportService
}

func newReportHandler(reportSvc service.ReportService) *reportHandler {
	return &reportHandler{reportSvc: reportSvc}
}

func (h *reportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) error {
	var (
		params service.GenerateReportParams
		err    error
	)
	if params.StartDate, err = queryParam[string](r, "start_date"); err != nil {
		return err
	}
	if params.EndDate, err = queryParam[string](r, "end_date"); err != nil {
		return err
	}
	if params.ProductID, err = queryParam[string](r, "product_id"); err != nil {
		return err
	}

	report, err := h.reportSvc.GenerateReport(r.Context(), params)
	if err != nil {
		return fmt.Errorf("report service generate report: %w", err)
	}

	writeJSON(w, http.StatusOK, report)
	return nil
}
