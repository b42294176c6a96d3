package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/preorder"
	"github.com/preorder/backoffice/internal/domain/report"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"github.com/preorder/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrNoActiveRound is returned when an order is placed without a round and
// no round is currently active
var ErrNoActiveRound = preorder.ErrNoActiveRound

// OrderService handles the order lifecycle, including the automatic stock
// deduction when a paid order ships
type OrderService struct {
	orderRepo       trade.OrderRepository
	roundRepo       preorder.RoundRepository
	productRepo     catalog.ProductRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	location        *time.Location
	logger          *zap.Logger
}

// Option configures an OrderService
type Option func(*OrderService)

// WithLocation sets the business time zone used to place calendar delivery
// dates. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *OrderService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	roundRepo preorder.RoundRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	log *zap.Logger,
	opts ...Option,
) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &OrderService{
		orderRepo:   orderRepo,
		roundRepo:   roundRepo,
		productRepo: productRepo,
		txScope:     txScope,
		location:    time.UTC,
		logger:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create places a new order. Without a round ID the earliest active round is used.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create", telemetry.SpanAttrItemCount, len(req.Items))
	defer span.End()

	payment, err := trade.ParsePaymentStatus(req.PaymentStatus, trade.PaymentStatusUnpaid)
	if err != nil {
		return nil, err
	}
	shipping, err := trade.ParseShippingStatus(req.ShippingStatus, trade.ShippingStatusWaiting)
	if err != nil {
		return nil, err
	}

	roundID, err := s.resolveRound(ctx, req.RoundID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := trade.NewOrder(roundID, trade.OrderDetails{
		Customer: trade.Customer{
			Name:    req.CustomerName,
			Phone:   req.CustomerPhone,
			Address: req.CustomerAddress,
		},
		DeliveryDate:   req.DeliveryDate.In(s.location),
		Note:           req.Note,
		PaymentStatus:  payment,
		ShippingStatus: shipping,
	}, toLineInputs(req.Items))
	if err != nil {
		return nil, err
	}

	if err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Orders().Save(ctx, order)
	}); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save order: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, order.ID, telemetry.SpanAttrRoundID, roundID)

	s.businessMetrics.RecordOrderCreated(ctx, string(order.PaymentStatus), order.TotalAmount)
	logger.Ctx(ctx, s.logger).Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("round_id", roundID.String()),
		zap.String("total_amount", order.TotalAmount.String()),
		zap.Int("items", order.ItemCount()),
	)
	s.publish(ctx, order)

	return s.respond(ctx, order)
}

// Update replaces the order's fields and items. Moving a paid order into
// SHIPPED appends one stock deduction per item in the same transaction.
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update", telemetry.SpanAttrOrderID, orderID)
	defer span.End()

	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return s.notFound(err, orderID)
		}

		payment, err := trade.ParsePaymentStatus(req.PaymentStatus, order.PaymentStatus)
		if err != nil {
			return err
		}
		shipping, err := trade.ParseShippingStatus(req.ShippingStatus, order.ShippingStatus)
		if err != nil {
			return err
		}

		deductions, err := order.Update(trade.OrderDetails{
			Customer: trade.Customer{
				Name:    req.CustomerName,
				Phone:   req.CustomerPhone,
				Address: req.CustomerAddress,
			},
			DeliveryDate:   req.DeliveryDate.In(s.location),
			Note:           req.Note,
			PaymentStatus:  payment,
			ShippingStatus: shipping,
		}, toLineInputs(req.Items))
		if err != nil {
			return err
		}

		return s.persist(ctx, repos, order, deductions)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Order updated",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_status", order.PaymentStatus.String()),
		zap.String("shipping_status", order.ShippingStatus.String()),
	)
	s.publish(ctx, order)

	return s.respond(ctx, order)
}

// UpdateStatus sets payment and shipping status. The stored items are used
// for any stock deduction.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status",
		telemetry.SpanAttrOrderID, orderID,
		telemetry.SpanAttrPaymentStatus, req.PaymentStatus,
		telemetry.SpanAttrShippingStatus, req.ShippingStatus,
	)
	defer span.End()

	payment, err := trade.ParsePaymentStatus(req.PaymentStatus, "")
	if err != nil {
		return nil, err
	}
	shipping, err := trade.ParseShippingStatus(req.ShippingStatus, "")
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return s.notFound(err, orderID)
		}

		deductions, err := order.ChangeStatus(payment, shipping)
		if err != nil {
			return err
		}

		return s.persist(ctx, repos, order, deductions)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_status", order.PaymentStatus.String()),
		zap.String("shipping_status", order.ShippingStatus.String()),
	)
	s.publish(ctx, order)

	return s.respond(ctx, order)
}

// Delete removes an order and its items. Stock already deducted for it is
// left in the ledger.
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return s.notFound(err, orderID)
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return s.notFound(err, orderID)
	}
	order.MarkDeleted()

	logger.Ctx(ctx, s.logger).Info("Order deleted", zap.String("order_id", orderID.String()))
	s.publish(ctx, order)
	return nil
}

// GetByID returns an order with its items
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.notFound(err, orderID)
	}
	return s.respond(ctx, order)
}

// List returns orders matching the filter, newest first by default
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.PaymentStatus != "" {
		status, err := trade.ParsePaymentStatus(filter.PaymentStatus, "")
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["payment_status"] = status
	}
	if filter.ShippingStatus != "" {
		status, err := trade.ParseShippingStatus(filter.ShippingStatus, "")
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["shipping_status"] = status
	}
	if filter.RoundID != nil {
		domainFilter.Filters["round_id"] = *filter.RoundID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	names, err := s.productNames(ctx, orders)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders, names), total, nil
}

// persist saves the order first, then appends its stock deductions
func (s *OrderService) persist(ctx context.Context, repos TransactionalRepositories, order *trade.Order, deductions []trade.StockDeduction) error {
	if err := repos.Orders().Save(ctx, order); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	if len(deductions) == 0 {
		return nil
	}

	entries := make([]*inventory.StockEntry, 0, len(deductions))
	for _, d := range deductions {
		entry, err := inventory.NewDeduction(d.ProductID, d.Quantity, order.DeductionNote())
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if err := repos.StockEntries().Append(ctx, entries...); err != nil {
		return fmt.Errorf("append stock deductions: %w", err)
	}

	for _, e := range entries {
		s.businessMetrics.RecordStockMovement(ctx, e.Amount)
	}
	s.businessMetrics.RecordOrderShipped(ctx)
	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "stock_deducted", "lines", len(entries))
	logger.Ctx(ctx, s.logger).Info("Stock deducted for shipped order",
		zap.String("order_id", order.ID.String()),
		zap.Int("entries", len(entries)),
	)
	return nil
}

func (s *OrderService) resolveRound(ctx context.Context, roundID *uuid.UUID) (uuid.UUID, error) {
	if roundID != nil && *roundID != uuid.Nil {
		round, err := s.roundRepo.FindByID(ctx, *roundID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return uuid.Nil, shared.NewNotFoundError("Preorder round", *roundID)
			}
			return uuid.Nil, err
		}
		return round.ID, nil
	}

	rounds, err := s.roundRepo.FindActive(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	round, ok := preorder.EarliestActive(rounds)
	if !ok {
		return uuid.Nil, ErrNoActiveRound
	}
	return round.ID, nil
}

func (s *OrderService) respond(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	names, err := s.productNames(ctx, []trade.Order{*order})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order, names)
	return &response, nil
}

func (s *OrderService) productNames(ctx context.Context, orders []trade.Order) (report.ProductNames, error) {
	ids := report.ReferencedProducts(orders)
	if len(ids) == 0 {
		return report.ProductNames{}, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return report.NamesOf(products), nil
}

func (s *OrderService) notFound(err error, orderID uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Order", orderID)
	}
	return err
}

// publish sends the aggregate's pending events. Publishing happens after
// commit and its failure does not fail the request.
func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if s.eventPublisher == nil {
		order.ClearDomainEvents()
		return
	}
	if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		logger.Ctx(ctx, s.logger).Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}
