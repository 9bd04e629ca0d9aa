package handler

import (
	leasingapp "github.com/dansever/estait-app-sub000/internal/application/leasing"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the owner's home screen figures
type DashboardHandler struct {
	BaseHandler
	leaseService *leasingapp.LeaseService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(leaseService *leasingapp.LeaseService) *DashboardHandler {
	return &DashboardHandler{leaseService: leaseService}
}

// Summary godoc
// @ID           getDashboardSummary
// @Summary      Lease dashboard
// @Description  Lease counts per status, leases ending soon and the occupancy rate as of today
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[leasingapp.SummaryResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	summary, err := h.leaseService.Summary(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
