package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stock-ledger/internal/config"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	cfg        config.Stock
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	cfg config.Stock,
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(TopicPurchaseCreated, handleJSON(s.handlePurchaseCreatedEvent)); err != nil {
		return nil, fmt.Errorf("register purchase created event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(TopicSaleCreated, handleJSON(s.handleSaleCreatedEvent)); err != nil {
		return nil, fmt.Errorf("register sale created event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(TopicProductRemoved, handleJSON(s.handleProductRemovedEvent)); err != nil {
		return nil, fmt.Errorf("register product removed event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func handleJSON[T any](fn func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := fn(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
