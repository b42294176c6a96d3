package handler

import (
	"github.com/gin-gonic/gin"
	preorderapp "github.com/preorder/backoffice/internal/application/preorder"
)

// RoundHandler handles preorder round endpoints
type RoundHandler struct {
	BaseHandler
	roundService *preorderapp.RoundService
}

// NewRoundHandler creates a new RoundHandler
func NewRoundHandler(roundService *preorderapp.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

// Create godoc
// @ID           createRound
// @Summary      Open a preorder round
// @Description  Create a round. Rounds are active unless is_active is false.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        request body preorderapp.CreateRoundRequest true "Round creation request"
// @Success      201 {object} APIResponse[preorderapp.RoundResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /preorder/rounds [post]
func (h *RoundHandler) Create(c *gin.Context) {
	var req preorderapp.CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	round, err := h.roundService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, round)
}

// GetByID godoc
// @ID           getRoundById
// @Summary      Get round by ID
// @Tags         rounds
// @Produce      json
// @Param        id path string true "Round ID" format(uuid)
// @Success      200 {object} APIResponse[preorderapp.RoundResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /preorder/rounds/{id} [get]
func (h *RoundHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "round")
	if !ok {
		return
	}

	round, err := h.roundService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, round)
}

// List godoc
// @ID           listRounds
// @Summary      List preorder rounds
// @Tags         rounds
// @Produce      json
// @Param        search query string false "Search by name"
// @Param        is_active query bool false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]preorderapp.RoundResponse]
// @Router       /preorder/rounds [get]
func (h *RoundHandler) List(c *gin.Context) {
	var filter preorderapp.RoundListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	rounds, total, err := h.roundService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := pageParams(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, rounds, total, page, pageSize)
}

// Active godoc
// @ID           getActiveRound
// @Summary      Get the current round
// @Description  The active round with the earliest start date
// @Tags         rounds
// @Produce      json
// @Success      200 {object} APIResponse[preorderapp.RoundResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /preorder/rounds/active [get]
func (h *RoundHandler) Active(c *gin.Context) {
	round, err := h.roundService.ResolveActiveRound(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, round)
}

// Update godoc
// @ID           updateRound
// @Summary      Update a round
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        id path string true "Round ID" format(uuid)
// @Param        request body preorderapp.UpdateRoundRequest true "Round update request"
// @Success      200 {object} APIResponse[preorderapp.RoundResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /preorder/rounds/{id} [put]
func (h *RoundHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "round")
	if !ok {
		return
	}

	var req preorderapp.UpdateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	round, err := h.roundService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, round)
}

// Toggle godoc
// @ID           toggleRound
// @Summary      Toggle round status
// @Tags         rounds
// @Produce      json
// @Param        id path string true "Round ID" format(uuid)
// @Success      200 {object} APIResponse[preorderapp.RoundResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /preorder/rounds/{id}/toggle [post]
func (h *RoundHandler) Toggle(c *gin.Context) {
	id, ok := h.parseID(c, "id", "round")
	if !ok {
		return
	}

	round, err := h.roundService.Toggle(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, round)
}

// Delete godoc
// @ID           deleteRound
// @Summary      Delete a round
// @Description  Rejected with 422 while orders still reference the round
// @Tags         rounds
// @Param        id path string true "Round ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /preorder/rounds/{id} [delete]
func (h *RoundHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "round")
	if !ok {
		return
	}

	if err := h.roundService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
