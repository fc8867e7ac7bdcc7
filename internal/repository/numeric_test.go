package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericConversion(t *testing.T) {
	for _, s := range []string{"0", "179.95", "-54.95", "1250", "0.0001"} {
		t.Run(s, func(t *testing.T) {
			want := decimal.RequireFromString(s)

			got, err := fromNumeric(toNumeric(want))
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "want %s got %s", want, got)
		})
	}

	t.Run("Should treat NULL as zero", func(t *testing.T) {
		got, err := fromNumeric(pgtype.Numeric{})
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("Should reject NaN", func(t *testing.T) {
		_, err := fromNumeric(pgtype.Numeric{NaN: true, Valid: true})
		assert.Error(t, err)
	})
}
