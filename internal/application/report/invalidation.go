package report

import (
	"context"

	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/finance"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CacheInvalidationHandler drops cached reports whenever an order, stock,
// product or expense changes
type CacheInvalidationHandler struct {
	reports *ReportService
	logger  *zap.Logger
}

// NewCacheInvalidationHandler creates a handler for the event bus
func NewCacheInvalidationHandler(reports *ReportService, log *zap.Logger) *CacheInvalidationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CacheInvalidationHandler{reports: reports, logger: log}
}

// EventTypes returns every event that can change a report
func (h *CacheInvalidationHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderCreated,
		trade.EventTypeOrderUpdated,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderShipped,
		trade.EventTypeOrderDeleted,
		inventory.EventTypeStockRecorded,
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductStatusChanged,
		catalog.EventTypeProductDeleted,
		finance.EventTypeExpenseRecorded,
		finance.EventTypeExpenseUpdated,
		finance.EventTypeExpenseDeleted,
	}
}

// Handle invalidates the report cache. A failure is logged and returned;
// the TTL bounds staleness either way.
func (h *CacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.reports.Invalidate(ctx); err != nil {
		logger.Ctx(ctx, h.logger).Warn("Failed to invalidate report cache",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

var _ shared.EventHandler = (*CacheInvalidationHandler)(nil)
