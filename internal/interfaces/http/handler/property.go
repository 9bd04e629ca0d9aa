package handler

import (
	leasingapp "github.com/dansever/estait-app-sub000/internal/application/leasing"
	propertyapp "github.com/dansever/estait-app-sub000/internal/application/property"
	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property-related API endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *propertyapp.PropertyService
	leaseService    *leasingapp.LeaseService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *propertyapp.PropertyService, leaseService *leasingapp.LeaseService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		leaseService:    leaseService,
	}
}

// Create godoc
// @ID           createProperty
// @Summary      Create a property
// @Description  Add a property to the authenticated owner's portfolio
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body propertyapp.CreatePropertyRequest true "Property creation request"
// @Success      201 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req propertyapp.CreatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	prop, err := h.propertyService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, prop)
}

// GetByID godoc
// @ID           getPropertyById
// @Summary      Get property by ID
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	propertyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	prop, err := h.propertyService.GetByID(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// List godoc
// @ID           listProperties
// @Summary      List properties
// @Description  Retrieve a paginated list of the owner's properties with optional filtering
// @Tags         properties
// @Produce      json
// @Param        search       query string false "Search term (name, street, city)"
// @Param        status       query string false "Property status" Enums(active, archived)
// @Param        type         query string false "Property type" Enums(apartment, house, condo, townhouse, commercial, land, other)
// @Param        city         query string false "City"
// @Param        min_bedrooms query int    false "Minimum number of bedrooms"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20) maximum(100)
// @Param        order_by     query string false "Order by field" default(created_at)
// @Param        order_dir    query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var filter propertyapp.PropertyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	props, total, err := h.propertyService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, props, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProperty
// @Summary      Update a property
// @Description  Full edit of a property. The version must match the stored one.
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id      path string true "Property ID" format(uuid)
// @Param        request body propertyapp.UpdatePropertyRequest true "Property update request"
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	propertyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req propertyapp.UpdatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	prop, err := h.propertyService.Update(c.Request.Context(), ownerID, propertyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// Archive godoc
// @ID           archiveProperty
// @Summary      Archive a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id}/archive [post]
func (h *PropertyHandler) Archive(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	propertyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	prop, err := h.propertyService.Archive(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// Restore godoc
// @ID           restoreProperty
// @Summary      Restore an archived property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id}/restore [post]
func (h *PropertyHandler) Restore(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	propertyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	prop, err := h.propertyService.Restore(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, prop)
}

// Delete godoc
// @ID           deleteProperty
// @Summary      Delete a property
// @Description  Properties with leases cannot be deleted; archive them instead
// @Tags         properties
// @Param        id path string true "Property ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	propertyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), ownerID, propertyID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Overview godoc
// @ID           getPropertyOverview
// @Summary      Property overview
// @Description  The property with its lease status, current and other leases, open maintenance and month-to-date income
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.OverviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id}/overview [get]
func (h *PropertyHandler) Overview(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	propertyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	overview, err := h.propertyService.Overview(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, overview)
}

// Leases godoc
// @ID           listPropertyLeases
// @Summary      Leases of a property
// @Description  The leases of a property split into current, upcoming and past as of today
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[leasingapp.PropertyLeasesResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id}/leases [get]
func (h *PropertyHandler) Leases(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	propertyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	leases, err := h.leaseService.ListByProperty(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, leases)
}
