package event

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/config"
	"github.com/tuanvumaihuynh/stock-ledger/internal/log"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	ran      bool
	cleaned  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if c.handlers == nil {
		c.handlers = map[string]mq.HandlerFunc{}
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.ran = true
	return func() { c.cleaned = true }, nil
}

func TestService_Run(t *testing.T) {
	consumer := &fakeConsumer{}
	svc := New(config.Stock{LowStockThreshold: 5}, log.Discard(), consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, consumer.ran)
	assert.Contains(t, consumer.handlers, TopicPurchaseCreated)
	assert.Contains(t, consumer.handlers, TopicSaleCreated)
	assert.Contains(t, consumer.handlers, TopicProductRemoved)

	cleanup()
	assert.True(t, consumer.cleaned)
}

func TestService_LowStockWarning(t *testing.T) {
	tests := []struct {
		name     string
		after    int64
		wantWarn bool
	}{
		{name: "above threshold", after: 6, wantWarn: false},
		{name: "at threshold", after: 5, wantWarn: true},
		{name: "sold out", after: 0, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.New(config.Log{Format: config.LogFormatJSON}, &buf)
			consumer := &fakeConsumer{}
			svc := New(config.Stock{LowStockThreshold: 5}, logger, consumer)
			_, err := svc.Run(context.Background())
			require.NoError(t, err)

			payload, err := json.Marshal(StockMovedEvent{ProductID: "p1", Sku: "SKU-1", QuantityDelta: -1, QuantityAfter: tt.after})
			require.NoError(t, err)

			require.NoError(t, consumer.handlers[TopicSaleCreated](context.Background(), TopicSaleCreated, payload))
			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte(`"msg":"low stock"`)))
		})
	}
}

func TestService_MalformedPayload(t *testing.T) {
	consumer := &fakeConsumer{}
	svc := New(config.Stock{}, log.Discard(), consumer)
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	err = consumer.handlers[TopicProductRemoved](context.Background(), TopicProductRemoved, []byte("{"))
	require.Error(t, err)
}
