package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/outbox"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/ptr"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	// MaxPageSize bounds a single page; larger requests are clamped.
	MaxPageSize = 1000
)

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.ValidationErr.WithMsg("invalid product id").WrapParent(err)
	}
	return id, nil
}

// parseOptionalProductID returns nil for an empty identifier.
func parseOptionalProductID(raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseProductID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperr.Validation(field + " is required")
	}
	return value, nil
}

func requirePositive(field string, value int64) error {
	if value <= 0 {
		return apperr.Validation(field + " must be greater than 0")
	}
	return nil
}

func requireNonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return apperr.Validation(field + " must be greater than or equal to 0")
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return ptr.New(v)
}

// pagination normalises page and size and derives the SQL bounds.
type pagination struct {
	page     int
	pageSize int
}

func newPagination(page, pageSize int) pagination {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)
	return pagination{page: page, pageSize: pageSize}
}

func (p pagination) params() repository.PageParams {
	offset := int64(p.page-1) * int64(p.pageSize)
	if offset > math.MaxInt32 {
		offset = math.MaxInt32
	}
	//nolint:gosec
	return repository.PageParams{Limit: int32(p.pageSize), Offset: int32(offset)}
}

func (p pagination) totalPages(total int64) int {
	return int(math.Ceil(float64(total) / float64(p.pageSize)))
}

func newOutboxMsg(ctx context.Context, topic string, partitionKey string, ev any) (repository.CreateOutboxMsgParams, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return repository.CreateOutboxMsgParams{}, fmt.Errorf("marshal event: %w", err)
	}

	return repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(partitionKey),
	}, nil
}
