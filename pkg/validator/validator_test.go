package validator_test

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type priced struct {
	Sku   string          `validate:"required,sku"`
	Price decimal.Decimal `validate:"dgte=0"`
	Cost  decimal.Decimal `validate:"dgt=0"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should accept valid struct", func(t *testing.T) {
		err := v.Validate(priced{Sku: "SKU-12345", Price: decimal.Zero, Cost: decimal.RequireFromString("0.01")})
		assert.NoError(t, err)
	})

	t.Run("Should report every failing field", func(t *testing.T) {
		err := v.Validate(priced{Sku: "-bad sku", Price: decimal.RequireFromString("-1"), Cost: decimal.Zero})
		require.Error(t, err)
		require.True(t, validator.IsValidationError(err))

		fields := map[string]string{}
		for _, fe := range err.(govalidator.ValidationErrors) {
			fields[fe.Field()] = validator.ValidationErrorMessage(fe)
		}
		assert.Equal(t, "must be greater than or equal to 0", fields["Price"])
		assert.Equal(t, "must be greater than 0", fields["Cost"])
		assert.Contains(t, fields, "Sku")
	})
}
