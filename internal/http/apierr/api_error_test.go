package apierr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/apierr"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

func TestNew(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)
	validationErr := v.Validate(struct {
		Name string `validate:"required"`
	}{})

	var syntaxErr error = &json.SyntaxError{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient stock", fmt.Errorf("db with tx: %w", apperr.InsufficientStockErr), http.StatusUnprocessableEntity, apperr.InsufficientStockErrorCode},
		{"not found", apperr.ProductNotFoundErr, http.StatusNotFound, apperr.ProductNotFoundErrorCode},
		{"conflict", apperr.SkuConflictErr, http.StatusConflict, apperr.SkuConflictErrorCode},
		{"invalid range", apperr.InvalidDateRangeErr, http.StatusBadRequest, apperr.InvalidDateRangeErrorCode},
		{"validation", apperr.Validation("quantity must be greater than 0"), http.StatusBadRequest, apperr.ValidationErrorCode},
		{"struct validation", validationErr, http.StatusBadRequest, "validationError"},
		{"param", &apierr.InvalidParamError{ParamName: "page", Err: errors.New("bad")}, http.StatusBadRequest, "validationError"},
		{"decode", fmt.Errorf("decode body: %w", syntaxErr), http.StatusBadRequest, "invalidRequestBody"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internalServerError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := apierr.New(tt.err)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}

	res := apierr.New(apperr.Validation("quantity must be greater than 0"))
	assert.Equal(t, "quantity must be greater than 0", res.Message)

	res = apierr.New(validationErr)
	require.NotNil(t, res.Details)
	assert.Equal(t, "Name", (*res.Details)[0].Field)
}
