package handler

import (
	propertyapp "github.com/dansever/estait-app-sub000/internal/application/property"
	"github.com/gin-gonic/gin"
)

// TenantHandler handles the renters of an owner
type TenantHandler struct {
	BaseHandler
	tenantService *propertyapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *propertyapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create godoc
// @ID           createTenant
// @Summary      Create a renter
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body propertyapp.CreateTenantRequest true "Renter creation request"
// @Success      201 {object} APIResponse[propertyapp.TenantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req propertyapp.CreateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tenant)
}

// GetByID godoc
// @ID           getTenantById
// @Summary      Get renter by ID
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Renter ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.TenantResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	tenantID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), ownerID, tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tenant)
}

// List godoc
// @ID           listTenants
// @Summary      List renters
// @Tags         tenants
// @Produce      json
// @Param        search    query string false "Search term (name, email, phone)"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Param        order_by  query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]propertyapp.TenantResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var filter propertyapp.TenantListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	tenants, total, err := h.tenantService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, tenants, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateTenant
// @Summary      Update a renter
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id      path string true "Renter ID" format(uuid)
// @Param        request body propertyapp.UpdateTenantRequest true "Renter update request"
// @Success      200 {object} APIResponse[propertyapp.TenantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	tenantID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req propertyapp.UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), ownerID, tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Delete godoc
// @ID           deleteTenant
// @Summary      Delete a renter
// @Description  Renters still linked to a lease cannot be deleted
// @Tags         tenants
// @Param        id path string true "Renter ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	tenantID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), ownerID, tenantID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
