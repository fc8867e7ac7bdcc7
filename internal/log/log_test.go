package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/config"
	"github.com/tuanvumaihuynh/stock-ledger/internal/log"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/correlationid"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}, &buf)

	ctx := correlationid.NewContext(context.Background(), "req-42")
	logger.InfoContext(ctx, "stock incremented", slog.Int64("delta", 50))
	logger.DebugContext(ctx, "dropped")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "stock incremented", record["msg"])
	assert.Equal(t, "req-42", record["correlation_id"])
	assert.EqualValues(t, 50, record["delta"])
	assert.NotContains(t, record, "trace_id")
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(config.Log{Format: config.LogFormatText, Level: slog.LevelInfo}, &buf)

	logger.Warn("insufficient stock", slog.String("product_id", "p-1"))

	assert.Contains(t, buf.String(), "insufficient stock")
	assert.Contains(t, buf.String(), "product_id=p-1")
}

func TestErrorCodeEnrichment(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}, &buf)

	err := fmt.Errorf("stock service create sale: %w", apperr.InsufficientStockErr)
	logger.Warn("http response error", slog.Any("error", err))

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, apperr.InsufficientStockErrorCode, record["error_code"])

	buf.Reset()
	logger.Error("relay batch failed", slog.Any("error", fmt.Errorf("boom")))

	record = map[string]any{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.NotContains(t, record, "error_code")
}
