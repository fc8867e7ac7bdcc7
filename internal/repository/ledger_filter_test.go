package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLedgerFilterWhere(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	t.Run("Should only bound the window by default", func(t *testing.T) {
		where, args := LedgerFilter{Start: start, End: end}.where("customer_name", true)

		assert.Equal(t, "WHERE NOT deleted AND date >= @start AND date <= @end", where)
		assert.Len(t, args, 2)
	})

	t.Run("Should add every optional predicate", func(t *testing.T) {
		productID := uuid.New()
		where, args := LedgerFilter{
			Start:        start,
			End:          end,
			ProductID:    &productID,
			Counterparty: "  mo_hin% ",
			DueOnly:      true,
		}.where("customer_name", true)

		assert.Contains(t, where, "product_id = @product_id")
		assert.Contains(t, where, "customer_name ILIKE '%' || @counterparty || '%'")
		assert.Contains(t, where, "due > 0")
		assert.Equal(t, productID, args["product_id"])
		assert.Equal(t, `mo\_hin\%`, args["counterparty"])
	})

	t.Run("Should ignore due filter for purchases", func(t *testing.T) {
		where, _ := LedgerFilter{Start: start, End: end, DueOnly: true}.where("supplier_name", false)

		assert.NotContains(t, where, "due")
	})
}
