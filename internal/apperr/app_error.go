package apperr

import "github.com/tuanvumaihuynh/stock-ledger/pkg/zerror"

const (
	ValidationErrorCode        = "VALIDATION_FAILED"
	ProductNotFoundErrorCode   = "PRODUCT_NOT_FOUND"
	SaleNotFoundErrorCode      = "SALE_NOT_FOUND"
	PurchaseNotFoundErrorCode  = "PURCHASE_NOT_FOUND"
	SkuConflictErrorCode       = "SKU_CONFLICT"
	InsufficientStockErrorCode = "INSUFFICIENT_STOCK"
	InvalidDateRangeErrorCode  = "INVALID_DATE_RANGE"
)

var (
	ValidationErr        = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr   = zerror.NewNotFound(ProductNotFoundErrorCode, "product not found")
	SaleNotFoundErr      = zerror.NewNotFound(SaleNotFoundErrorCode, "sale not found")
	PurchaseNotFoundErr  = zerror.NewNotFound(PurchaseNotFoundErrorCode, "purchase not found")
	SkuConflictErr       = zerror.NewConflict(SkuConflictErrorCode, "sku already exists")
	InsufficientStockErr = zerror.NewUnprocessableEntity(InsufficientStockErrorCode, "not enough stock available")
	InvalidDateRangeErr  = zerror.NewBadRequest(InvalidDateRangeErrorCode, "invalid date range")
)

// Validation returns ValidationErr with a specific message.
func Validation(msg string) error {
	return ValidationErr.WithMsg(msg)
}
