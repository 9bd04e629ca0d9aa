package handler

import (
	documentapp "github.com/dansever/estait-app-sub000/internal/application/document"
	leasingapp "github.com/dansever/estait-app-sub000/internal/application/leasing"
	"github.com/gin-gonic/gin"
)

// LeaseHandler handles lease-related API endpoints
type LeaseHandler struct {
	BaseHandler
	leaseService    *leasingapp.LeaseService
	documentService *documentapp.DocumentService
}

// NewLeaseHandler creates a new LeaseHandler. The document service renders
// lease statements and may be nil when statements are not served.
func NewLeaseHandler(leaseService *leasingapp.LeaseService, documentService *documentapp.DocumentService) *LeaseHandler {
	return &LeaseHandler{
		leaseService:    leaseService,
		documentService: documentService,
	}
}

// Create godoc
// @ID           createLease
// @Summary      Create a lease
// @Description  Record a lease on a property. The period must not overlap another lease of the same property.
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        request body leasingapp.CreateLeaseRequest true "Lease creation request"
// @Success      201 {object} APIResponse[leasingapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases [post]
func (h *LeaseHandler) Create(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req leasingapp.CreateLeaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lease, err := h.leaseService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, lease)
}

// GetByID godoc
// @ID           getLeaseById
// @Summary      Get lease by ID
// @Description  The lease with its status, progress and next payment date as of today
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[leasingapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id} [get]
func (h *LeaseHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	leaseID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	lease, err := h.leaseService.GetByID(c.Request.Context(), ownerID, leaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lease)
}

// List godoc
// @ID           listLeases
// @Summary      List leases
// @Tags         leases
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        tenant_id   query string false "Renter ID" format(uuid)
// @Param        status      query string false "Derived status as of today" Enums(upcoming, active, ending_soon, expired)
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Param        order_by    query string false "Order by field" default(lease_start)
// @Param        order_dir   query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]leasingapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases [get]
func (h *LeaseHandler) List(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var filter leasingapp.LeaseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	leases, total, err := h.leaseService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, leases, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateLease
// @Summary      Update a lease
// @Description  Edit the period and terms of a lease. Omitted fields keep their value.
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        id      path string true "Lease ID" format(uuid)
// @Param        request body leasingapp.UpdateLeaseRequest true "Lease update request"
// @Success      200 {object} APIResponse[leasingapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id} [put]
func (h *LeaseHandler) Update(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	leaseID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req leasingapp.UpdateLeaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lease, err := h.leaseService.Update(c.Request.Context(), ownerID, leaseID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lease)
}

// AssignTenant godoc
// @ID           assignLeaseTenant
// @Summary      Link or unlink the renter of a lease
// @Description  A null tenant_id unassigns the current renter
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        id      path string true "Lease ID" format(uuid)
// @Param        request body leasingapp.AssignTenantRequest true "Renter assignment"
// @Success      200 {object} APIResponse[leasingapp.LeaseResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/tenant [put]
func (h *LeaseHandler) AssignTenant(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	leaseID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req leasingapp.AssignTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lease, err := h.leaseService.AssignTenant(c.Request.Context(), ownerID, leaseID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lease)
}

// Terminate godoc
// @ID           terminateLease
// @Summary      Terminate a lease early
// @Description  Ends the lease on terminated_at, which must fall inside the lease period
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        id      path string true "Lease ID" format(uuid)
// @Param        request body leasingapp.TerminateLeaseRequest true "Termination request"
// @Success      200 {object} APIResponse[leasingapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/terminate [post]
func (h *LeaseHandler) Terminate(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	leaseID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req leasingapp.TerminateLeaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lease, err := h.leaseService.Terminate(c.Request.Context(), ownerID, leaseID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lease)
}

// Reinstate godoc
// @ID           reinstateLease
// @Summary      Undo an early termination
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[leasingapp.LeaseResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/reinstate [post]
func (h *LeaseHandler) Reinstate(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	leaseID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	lease, err := h.leaseService.Reinstate(c.Request.Context(), ownerID, leaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lease)
}

// Delete godoc
// @ID           deleteLease
// @Summary      Delete a lease
// @Tags         leases
// @Param        id path string true "Lease ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id} [delete]
func (h *LeaseHandler) Delete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	leaseID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.leaseService.Delete(c.Request.Context(), ownerID, leaseID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Preview godoc
// @ID           previewLease
// @Summary      Preview the status of a lease period
// @Description  Classifies a proposed period without storing anything. Invalid or missing dates are reported in the body, never as an error status.
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        request body leasingapp.PreviewRequest true "Proposed period"
// @Success      200 {object} APIResponse[leasingapp.PreviewResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/preview [post]
func (h *LeaseHandler) Preview(c *gin.Context) {
	if _, ok := h.requireOwner(c); !ok {
		return
	}

	var req leasingapp.PreviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.Success(c, h.leaseService.Preview(req))
}

// Statement godoc
// @ID           generateLeaseStatement
// @Summary      Generate a lease statement
// @Description  Renders the lease and its ledger entries to a PDF stored as a lease document
// @Tags         leases
// @Produce      json
// @Param        id       path  string true  "Lease ID" format(uuid)
// @Param        language query string false "Statement language (BCP 47)" default(en)
// @Success      201 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/statement [post]
func (h *LeaseHandler) Statement(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	leaseID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req documentapp.StatementRequest
	if !h.bindQuery(c, &req) {
		return
	}

	if h.documentService == nil {
		h.HandleDomainError(c, documentapp.ErrStatementsDisabled)
		return
	}

	doc, err := h.documentService.GenerateLeaseStatement(c.Request.Context(), ownerID, leaseID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, doc)
}
