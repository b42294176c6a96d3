package preorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/preorder"
)

// CreateRoundRequest represents a request to open a pre-order round
type CreateRoundRequest struct {
	Name         string    `json:"name" binding:"required,max=200"`
	StartDate    time.Time `json:"start_date" binding:"required"`
	EndDate      time.Time `json:"end_date" binding:"required"`
	DeliveryDate time.Time `json:"delivery_date" binding:"required"`
	IsActive     *bool     `json:"is_active"`
}

// UpdateRoundRequest replaces the window of a round
type UpdateRoundRequest struct {
	Name         string    `json:"name" binding:"required,max=200"`
	StartDate    time.Time `json:"start_date" binding:"required"`
	EndDate      time.Time `json:"end_date" binding:"required"`
	DeliveryDate time.Time `json:"delivery_date" binding:"required"`
}

// RoundListFilter represents filter options for the round list
type RoundListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RoundResponse represents a round in API responses
type RoundResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DeliveryDate time.Time `json:"delivery_date"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToRoundResponse converts a domain round
func ToRoundResponse(r *preorder.Round) RoundResponse {
	return RoundResponse{
		ID:           r.ID,
		Name:         r.Name,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		DeliveryDate: r.DeliveryDate,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ToRoundResponses converts a slice of rounds
func ToRoundResponses(rounds []preorder.Round) []RoundResponse {
	responses := make([]RoundResponse, len(rounds))
	for i := range rounds {
		responses[i] = ToRoundResponse(&rounds[i])
	}
	return responses
}
