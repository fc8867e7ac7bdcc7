package daterange_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/pkg/daterange"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := daterange.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		err   bool
	}{
		{name: "calendar day", input: "2024-02-29", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 with offset", input: "2024-03-01T01:30:00+02:00", want: time.Date(2024, 2, 28, 23, 30, 0, 0, time.UTC)},
		{name: "local timestamp", input: "2024-03-01T10:00:00", want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "garbage", input: "yesterday", err: true},
		{name: "impossible day", input: "2023-02-29", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := daterange.ParseDate(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, daterange.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestWindow(t *testing.T) {
	t.Run("Should cover the full end day", func(t *testing.T) {
		w, err := daterange.New(mustParse(t, "2024-01-01"), mustParse(t, "2024-01-31"))
		require.NoError(t, err)

		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
		assert.Equal(t, 31, w.DayCount())
	})

	t.Run("Should reject reversed range", func(t *testing.T) {
		_, err := daterange.New(mustParse(t, "2024-02-02"), mustParse(t, "2024-02-01"))
		assert.ErrorIs(t, err, daterange.ErrInvalidRange)
	})

	t.Run("Should accept a single day", func(t *testing.T) {
		w, err := daterange.New(mustParse(t, "2024-02-02T18:00:00Z"), mustParse(t, "2024-02-02T08:00:00Z"))
		require.NoError(t, err)
		assert.Equal(t, 1, w.DayCount())
	})

	t.Run("Should yield every day once across a leap day", func(t *testing.T) {
		w, err := daterange.New(mustParse(t, "2024-02-27"), mustParse(t, "2024-03-02"))
		require.NoError(t, err)

		var keys []string
		for d := range w.Days() {
			keys = append(keys, daterange.DayKey(d))
		}

		assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, keys)
		assert.Len(t, keys, w.DayCount())
		assert.True(t, slices.IsSorted(keys))
	})

	t.Run("Should compute current month", func(t *testing.T) {
		w := daterange.Month(time.Date(2026, 2, 14, 13, 0, 0, 0, time.UTC))

		assert.Equal(t, "2026-02-01", daterange.DayKey(w.Start))
		assert.Equal(t, "2026-02-28", daterange.DayKey(w.End))
		assert.Equal(t, 28, w.DayCount())
	})
}
