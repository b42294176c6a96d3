// Package report loads records for the back-office aggregations and caches
// the computed read models.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/finance"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/report"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"github.com/preorder/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// KeyPrefix prefixes every cached report
const KeyPrefix = "report:"

const (
	// DefaultTTL bounds how stale a cached report can get if an
	// invalidation is missed
	DefaultTTL  = 5 * time.Minute
	maxTopLimit = 100
)

// Cache is the subset of the cache store the reports use
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// TopProductsFilter sets the ranking size
type TopProductsFilter struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ReportService computes the dashboard, ranking, production plan and
// dispatch buckets
type ReportService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	stockRepo   inventory.StockEntryRepository
	expenseRepo finance.ExpenseRepository
	cache       Cache
	ttl         time.Duration
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a ReportService
type Option func(*ReportService)

// WithCache caches results for ttl. A non positive ttl uses DefaultTTL.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *ReportService) {
		s.cache = cache
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLocation sets the business time zone used to decide "today"
func WithLocation(loc *time.Location) Option {
	return func(s *ReportService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) {
		s.now = now
	}
}

// NewReportService creates a new ReportService
func NewReportService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	stockRepo inventory.StockEntryRepository,
	expenseRepo finance.ExpenseRepository,
	log *zap.Logger,
	opts ...Option,
) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ReportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		expenseRepo: expenseRepo,
		ttl:         DefaultTTL,
		location:    time.UTC,
		now:         time.Now,
		logger:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard returns the headline sales and order figures
func (s *ReportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dashboard")
	defer span.End()

	return cached(ctx, s, KeyPrefix+"dashboard", func() (*report.Dashboard, error) {
		orders, err := s.orderRepo.FindWithItems(ctx, trade.OrderQuery{})
		if err != nil {
			return nil, fmt.Errorf("load orders: %w", err)
		}
		products, err := s.productRepo.Count(ctx, shared.Filter{})
		if err != nil {
			return nil, fmt.Errorf("count products: %w", err)
		}
		entries, err := s.stockRepo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count stock entries: %w", err)
		}
		expenses, err := s.expenseRepo.Summarize(ctx)
		if err != nil {
			return nil, fmt.Errorf("summarize expenses: %w", err)
		}

		dashboard := report.BuildDashboard(orders, report.DashboardCounts{
			ProductCount:    products,
			StockEntryCount: entries,
			TotalExpenses:   expenses.Total,
		})
		return &dashboard, nil
	})
}

// TopProducts ranks products by quantity ordered. limit <= 0 means the
// default of ten.
func (s *ReportService) TopProducts(ctx context.Context, limit int) ([]report.ProductQuantity, error) {
	if limit <= 0 {
		limit = report.DefaultTopN
	}
	limit = min(limit, maxTopLimit)

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "top_products", "limit", limit)
	defer span.End()

	return cached(ctx, s, fmt.Sprintf("%stop:%d", KeyPrefix, limit), func() ([]report.ProductQuantity, error) {
		orders, err := s.orderRepo.FindWithItems(ctx, trade.OrderQuery{})
		if err != nil {
			return nil, fmt.Errorf("load orders: %w", err)
		}
		names, err := s.names(ctx, orders)
		if err != nil {
			return nil, err
		}
		return report.TopProducts(orders, names, limit), nil
	})
}

// ProductionPlan compares paid, unshipped demand with current stock for
// every active product
func (s *ReportService) ProductionPlan(ctx context.Context) ([]report.ProductionRow, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "production_plan")
	defer span.End()

	return cached(ctx, s, KeyPrefix+"production", func() ([]report.ProductionRow, error) {
		products, err := s.productRepo.FindActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		orders, err := s.orderRepo.FindWithItems(ctx, trade.OrderQuery{PaymentStatus: trade.PaymentStatusPaid})
		if err != nil {
			return nil, fmt.Errorf("load orders: %w", err)
		}
		stock, err := s.stockRepo.SumAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("sum stock: %w", err)
		}
		return report.BuildProductionPlan(products, orders, stock), nil
	})
}

// Dispatch splits paid orders awaiting hand-over into today and tomorrow.
// The cache key carries the business date so a new day never reads
// yesterday's buckets.
func (s *ReportService) Dispatch(ctx context.Context) (*report.Dispatch, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dispatch")
	defer span.End()

	now := s.now()
	key := KeyPrefix + "dispatch:" + report.StartOfDay(now, s.location).Format(time.DateOnly)
	return cached(ctx, s, key, func() (*report.Dispatch, error) {
		orders, err := s.orderRepo.FindWithItems(ctx, trade.OrderQuery{
			PaymentStatus:    trade.PaymentStatusPaid,
			ShippingStatuses: trade.PendingDispatchStatuses(),
			OldestFirst:      true,
		})
		if err != nil {
			return nil, fmt.Errorf("load orders: %w", err)
		}
		names, err := s.names(ctx, orders)
		if err != nil {
			return nil, err
		}
		dispatch := report.BuildDispatch(orders, names, now, s.location)
		return &dispatch, nil
	})
}

// Invalidate drops every cached report
func (s *ReportService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, KeyPrefix)
}

// Refresh drops every cached report and recomputes the dashboard,
// production plan and dispatch buckets so the first read of the day is warm
func (s *ReportService) Refresh(ctx context.Context) error {
	if err := s.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate reports: %w", err)
	}
	var errs []error
	if _, err := s.Dashboard(ctx); err != nil {
		errs = append(errs, fmt.Errorf("dashboard: %w", err))
	}
	if _, err := s.ProductionPlan(ctx); err != nil {
		errs = append(errs, fmt.Errorf("production plan: %w", err))
	}
	if _, err := s.Dispatch(ctx); err != nil {
		errs = append(errs, fmt.Errorf("dispatch: %w", err))
	}
	return errors.Join(errs...)
}

func (s *ReportService) names(ctx context.Context, orders []trade.Order) (report.ProductNames, error) {
	ids := report.ReferencedProducts(orders)
	if len(ids) == 0 {
		return report.ProductNames{}, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load product names: %w", err)
	}
	return report.NamesOf(products), nil
}

// cached serves key from the cache or computes and stores it. Cache
// failures are logged and fall through to computing the value.
func cached[T any](ctx context.Context, s *ReportService, key string, compute func() (T, error)) (T, error) {
	if s.cache == nil {
		return compute()
	}

	log := logger.Ctx(ctx, s.logger)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			telemetry.AddEvent(telemetry.SpanFromContext(ctx), "cache_hit", "key", key)
			return value, nil
		}
		log.Warn("Discarding undecodable cached report", zap.String("key", key))
	}

	value, err := compute()
	if err != nil {
		return value, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		log.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
