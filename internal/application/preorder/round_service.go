package preorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/preorder"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"github.com/preorder/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrRoundHasOrders is returned when deleting a round that orders still reference
var ErrRoundHasOrders = shared.NewDomainError(shared.CodeInvalidState, "Cannot delete a preorder round that has orders")

// RoundService manages pre-order rounds
type RoundService struct {
	roundRepo      preorder.RoundRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRoundService creates a new RoundService
func NewRoundService(roundRepo preorder.RoundRepository, log *zap.Logger) *RoundService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoundService{
		roundRepo: roundRepo,
		logger:    log,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *RoundService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new round. Rounds are active unless the request says otherwise.
func (s *RoundService) Create(ctx context.Context, req CreateRoundRequest) (*RoundResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "round", "create")
	defer span.End()

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	round, err := preorder.NewRound(preorder.RoundWindow{
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DeliveryDate: req.DeliveryDate,
	}, active)
	if err != nil {
		return nil, err
	}

	if err := s.roundRepo.Save(ctx, round); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save round: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRoundID, round.ID)

	logger.Ctx(ctx, s.logger).Info("Preorder round created",
		zap.String("round_id", round.ID.String()),
		zap.String("name", round.Name),
		zap.Bool("is_active", round.IsActive),
	)
	s.publish(ctx, round)

	response := ToRoundResponse(round)
	return &response, nil
}

// Update replaces the round's name and dates
func (s *RoundService) Update(ctx context.Context, id uuid.UUID, req UpdateRoundRequest) (*RoundResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "round", "update", telemetry.SpanAttrRoundID, id)
	defer span.End()

	round, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := round.Update(preorder.RoundWindow{
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DeliveryDate: req.DeliveryDate,
	}); err != nil {
		return nil, err
	}

	if err := s.roundRepo.Save(ctx, round); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save round: %w", err)
	}
	s.publish(ctx, round)

	response := ToRoundResponse(round)
	return &response, nil
}

// Toggle flips whether the round accepts orders
func (s *RoundService) Toggle(ctx context.Context, id uuid.UUID) (*RoundResponse, error) {
	round, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	round.ToggleActive()
	if err := s.roundRepo.Save(ctx, round); err != nil {
		return nil, fmt.Errorf("save round: %w", err)
	}

	logger.Ctx(ctx, s.logger).Info("Preorder round toggled",
		zap.String("round_id", round.ID.String()),
		zap.Bool("is_active", round.IsActive),
	)
	s.publish(ctx, round)

	response := ToRoundResponse(round)
	return &response, nil
}

// Delete removes a round. Rounds that orders still reference cannot be deleted.
func (s *RoundService) Delete(ctx context.Context, id uuid.UUID) error {
	round, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	orders, err := s.roundRepo.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if orders > 0 {
		return ErrRoundHasOrders
	}

	if err := s.roundRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Preorder round", id)
		}
		return err
	}

	logger.Ctx(ctx, s.logger).Info("Preorder round deleted", zap.String("round_id", id.String()))
	round.AddDomainEvent(preorder.NewRoundChangedEvent(round, preorder.EventTypeRoundDeleted))
	s.publish(ctx, round)
	return nil
}

// GetByID returns a round
func (s *RoundService) GetByID(ctx context.Context, id uuid.UUID) (*RoundResponse, error) {
	round, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRoundResponse(round)
	return &response, nil
}

// List returns rounds matching the filter, latest start first by default
func (s *RoundService) List(ctx context.Context, filter RoundListFilter) ([]RoundResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "start_date"
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
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	rounds, err := s.roundRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.roundRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToRoundResponses(rounds), total, nil
}

// ResolveActiveRound returns the active round with the earliest start date
func (s *RoundService) ResolveActiveRound(ctx context.Context) (*RoundResponse, error) {
	rounds, err := s.roundRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	round, ok := preorder.EarliestActive(rounds)
	if !ok {
		return nil, preorder.ErrNoActiveRound
	}
	response := ToRoundResponse(round)
	return &response, nil
}

func (s *RoundService) find(ctx context.Context, id uuid.UUID) (*preorder.Round, error) {
	round, err := s.roundRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Preorder round", id)
		}
		return nil, err
	}
	return round, nil
}

func (s *RoundService) publish(ctx context.Context, round *preorder.Round) {
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, round.GetDomainEvents()...); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Failed to publish round events",
				zap.String("round_id", round.ID.String()),
				zap.Error(err),
			)
		}
	}
	round.ClearDomainEvents()
}
