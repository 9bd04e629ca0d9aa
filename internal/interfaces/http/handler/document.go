package handler

import (
	documentapp "github.com/dansever/estait-app-sub000/internal/application/document"
	"github.com/gin-gonic/gin"
)

// DocumentHandler serves document metadata and the presigned upload/download handshake
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// InitiateUpload godoc
// @ID           initiateDocumentUpload
// @Summary      Start a document upload
// @Description  Records pending metadata and returns a presigned URL the client PUTs the file to
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body documentapp.InitiateUploadRequest true "Upload request"
// @Success      201 {object} APIResponse[documentapp.UploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [post]
func (h *DocumentHandler) InitiateUpload(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req documentapp.InitiateUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.documentService.InitiateUpload(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, upload)
}

// ConfirmUpload godoc
// @ID           confirmDocumentUpload
// @Summary      Confirm a finished upload
// @Description  Checks the object exists in storage and marks the document uploaded
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/confirm [post]
func (h *DocumentHandler) ConfirmUpload(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	documentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.ConfirmUpload(c.Request.Context(), ownerID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// GetByID godoc
// @ID           getDocumentById
// @Summary      Get document metadata
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	documentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), ownerID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// Download godoc
// @ID           downloadDocument
// @Summary      Get a download URL
// @Description  Returns a short-lived presigned GET URL for an uploaded document
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[documentapp.DownloadResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	documentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	download, err := h.documentService.Download(c.Request.Context(), ownerID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, download)
}

// List godoc
// @ID           listDocuments
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        lease_id    query string false "Lease ID" format(uuid)
// @Param        category    query string false "Category" Enums(lease, insurance, inspection, receipt, tax, other)
// @Param        status      query string false "Upload status" Enums(pending, uploaded)
// @Param        search      query string false "Search term (name)"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Param        order_by    query string false "Order by field"
// @Param        order_dir   query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]documentapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var filter documentapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	docs, total, err := h.documentService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, docs, total, filter.Page, filter.PageSize)
}

// Rename godoc
// @ID           renameDocument
// @Summary      Rename or recategorize a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id      path string true "Document ID" format(uuid)
// @Param        request body documentapp.RenameDocumentRequest true "Rename request"
// @Success      200 {object} APIResponse[documentapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [put]
func (h *DocumentHandler) Rename(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	documentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req documentapp.RenameDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doc, err := h.documentService.Rename(c.Request.Context(), ownerID, documentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Delete a document
// @Description  Removes the stored object and its metadata
// @Tags         documents
// @Param        id path string true "Document ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	documentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), ownerID, documentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
