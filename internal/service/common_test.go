package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name           string
		page, pageSize int
		want           repository.PageParams
		wantPageSize   int
	}{
		{name: "defaults", page: 0, pageSize: 0, want: repository.PageParams{Limit: 10, Offset: 0}, wantPageSize: DefaultPageSize},
		{name: "second page", page: 2, pageSize: 25, want: repository.PageParams{Limit: 25, Offset: 25}, wantPageSize: 25},
		{name: "at max", page: 1, pageSize: MaxPageSize, want: repository.PageParams{Limit: MaxPageSize, Offset: 0}, wantPageSize: MaxPageSize},
		{name: "beyond int32", page: 1, pageSize: 1 << 31, want: repository.PageParams{Limit: MaxPageSize, Offset: 0}, wantPageSize: MaxPageSize},
		{name: "max int", page: 3, pageSize: math.MaxInt, want: repository.PageParams{Limit: MaxPageSize, Offset: 2 * MaxPageSize}, wantPageSize: MaxPageSize},
		{name: "huge page", page: math.MaxInt32, pageSize: MaxPageSize, want: repository.PageParams{Limit: MaxPageSize, Offset: math.MaxInt32}, wantPageSize: MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPageSize, p.pageSize)
			assert.Equal(t, tt.want, p.params())
		})
	}
}
