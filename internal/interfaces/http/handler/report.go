package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/preorder/backoffice/internal/application/report"
)

// ReportHandler handles the read-only report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard godoc
// @ID           getReportDashboard
// @Summary      Dashboard figures
// @Description  Paid sales, order counts, expenses and net
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[report.Dashboard]
// @Failure      500 {object} ErrorResponse
// @Router       /report/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// TopProducts godoc
// @ID           getReportTopProducts
// @Summary      Best selling products
// @Description  Products ranked by total ordered quantity
// @Tags         reports
// @Produce      json
// @Param        limit query int false "Number of products" default(10) maximum(100)
// @Success      200 {object} APIResponse[[]report.ProductQuantity]
// @Failure      400 {object} ErrorResponse
// @Router       /report/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	var filter reportapp.TopProductsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	ranking, err := h.reportService.TopProducts(c.Request.Context(), filter.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ranking)
}

// ProductionPlan godoc
// @ID           getReportProductionPlan
// @Summary      Production plan
// @Description  Per active product: paid unshipped quantity, stock and the amount still to produce
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[[]report.ProductionRow]
// @Router       /report/production-plan [get]
func (h *ReportHandler) ProductionPlan(c *gin.Context) {
	plan, err := h.reportService.ProductionPlan(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plan)
}

// Dispatch godoc
// @ID           getReportDispatch
// @Summary      Dispatch buckets
// @Description  Paid orders not yet shipped, split into today and tomorrow
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[report.Dispatch]
// @Router       /report/dispatch [get]
func (h *ReportHandler) Dispatch(c *gin.Context) {
	dispatch, err := h.reportService.Dispatch(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dispatch)
}
