package event

import (
	"context"
	"log/slog"
)

func (s *Service) handlePurchaseCreatedEvent(ctx context.Context, ev StockMovedEvent) error {
	s.logger.InfoContext(ctx, "stock received",
		slog.String("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.Int64("quantity_delta", ev.QuantityDelta),
		slog.Int64("quantity_after", ev.QuantityAfter),
	)
	return nil
}

func (s *Service) handleSaleCreatedEvent(ctx context.Context, ev StockMovedEvent) error {
	s.logger.InfoContext(ctx, "stock sold",
		slog.String("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.Int64("quantity_delta", ev.QuantityDelta),
		slog.Int64("quantity_after", ev.QuantityAfter),
	)

	if ev.QuantityAfter <= s.cfg.LowStockThreshold {
		s.logger.WarnContext(ctx, "low stock",
			slog.String("product_id", ev.ProductID),
			slog.String("sku", ev.Sku),
			slog.Int64("quantity", ev.QuantityAfter),
			slog.Int64("threshold", s.cfg.LowStockThreshold),
		)
	}
	return nil
}

func (s *Service) handleProductRemovedEvent(ctx context.Context, ev ProductRemovedEvent) error {
	s.logger.InfoContext(ctx, "product removed",
		slog.String("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.Int64("sales_deleted", ev.SalesDeleted),
		slog.Int64("purchases_deleted", ev.PurchasesDeleted),
	)
	return nil
}
