package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/report"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"github.com/preorder/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	// DefaultRecentLimit is how many entries the stock page shows
	DefaultRecentLimit = 50
	maxRecentLimit     = 500
)

// StockService records stock movements and reads derived stock levels
type StockService struct {
	stockRepo       inventory.StockEntryRepository
	productRepo     catalog.ProductRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(stockRepo inventory.StockEntryRepository, productRepo catalog.ProductRepository, log *zap.Logger) *StockService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
		logger:      log,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *StockService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Add appends a manual stock movement. The product must exist.
func (s *StockService) Add(ctx context.Context, req AddStockEntryRequest) (*StockEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "add",
		telemetry.SpanAttrProductID, req.ProductID,
		telemetry.SpanAttrQuantity, req.Amount,
	)
	defer span.End()

	direction, err := inventory.ParseDirection(req.Type)
	if err != nil {
		return nil, err
	}
	entry, err := inventory.NewStockEntry(req.ProductID, req.Amount, direction, req.Note)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product", req.ProductID)
		}
		return nil, err
	}

	if err := s.append(ctx, entry); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Stock entry recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("product_id", entry.ProductID.String()),
		zap.Int("amount", entry.Amount),
	)

	response := ToStockEntryResponse(entry, report.NamesOf([]catalog.Product{*product}))
	return &response, nil
}

// Reverse appends the compensating entry for an existing one. The original
// entry stays in the ledger.
func (s *StockService) Reverse(ctx context.Context, entryID uuid.UUID, req ReverseStockEntryRequest) (*StockEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "reverse", telemetry.SpanAttrEntryID, entryID)
	defer span.End()

	original, err := s.stockRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Stock entry", entryID)
		}
		return nil, err
	}

	reversal := original.Reverse(req.Note)
	if err := s.append(ctx, reversal); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Stock entry reversed",
		zap.String("entry_id", entryID.String()),
		zap.String("reversal_id", reversal.ID.String()),
		zap.Int("amount", reversal.Amount),
	)

	names, err := s.names(ctx, []uuid.UUID{reversal.ProductID})
	if err != nil {
		return nil, err
	}
	response := ToStockEntryResponse(reversal, names)
	return &response, nil
}

// ListRecent returns the newest entries with their product names
func (s *StockService) ListRecent(ctx context.Context, limit int) ([]StockEntryResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, maxRecentLimit)

	entries, err := s.stockRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	names, err := s.names(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]StockEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToStockEntryResponse(&entries[i], names)
	}
	return responses, nil
}

// CurrentStock returns the derived stock of one product. Products that no
// longer exist still report their ledger sum under the placeholder name.
func (s *StockService) CurrentStock(ctx context.Context, productID uuid.UUID) (*StockLevelResponse, error) {
	stock, err := s.stockRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	names, err := s.names(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	_, name := names.Resolve(&productID)
	return &StockLevelResponse{ProductID: productID, ProductName: name, Stock: stock}, nil
}

// StockLevels returns the derived stock of every active product and every
// product that has ledger entries, ordered by name
func (s *StockService) StockLevels(ctx context.Context) ([]StockLevelResponse, error) {
	levels, err := s.stockRepo.SumAll(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.productRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	names := report.NamesOf(active)
	var missing []uuid.UUID
	for id := range levels {
		if _, ok := names[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		others, err := s.productRepo.FindByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range others {
			names[p.ID] = p.Name
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(levels)+len(active))
	rows := make([]StockLevelResponse, 0, len(levels)+len(active))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		_, name := names.Resolve(&id)
		rows = append(rows, StockLevelResponse{ProductID: id, ProductName: name, Stock: levels[id]})
	}
	for _, p := range active {
		add(p.ID)
	}
	for id := range levels {
		add(id)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProductName != rows[j].ProductName {
			return rows[i].ProductName < rows[j].ProductName
		}
		return rows[i].ProductID.String() < rows[j].ProductID.String()
	})
	return rows, nil
}

func (s *StockService) append(ctx context.Context, entry *inventory.StockEntry) error {
	if err := s.stockRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append stock entry: %w", err)
	}
	s.businessMetrics.RecordStockMovement(ctx, entry.Amount)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, inventory.NewStockRecordedEvent(entry)); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Failed to publish stock event",
				zap.String("entry_id", entry.ID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *StockService) names(ctx context.Context, ids []uuid.UUID) (report.ProductNames, error) {
	if len(ids) == 0 {
		return report.ProductNames{}, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	return report.NamesOf(products), nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
