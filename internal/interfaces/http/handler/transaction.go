package handler

import (
	ledgerapp "github.com/dansever/estait-app-sub000/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles the income and expense ledger
type TransactionHandler struct {
	BaseHandler
	transactionService *ledgerapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *ledgerapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create godoc
// @ID           createTransaction
// @Summary      Record a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateTransactionRequest true "Transaction creation request"
// @Success      201 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req ledgerapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.transactionService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tx)
}

// GetByID godoc
// @ID           getTransactionById
// @Summary      Get transaction by ID
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	transactionID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.transactionService.GetByID(c.Request.Context(), ownerID, transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// List godoc
// @ID           listTransactions
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        lease_id    query string false "Lease ID" format(uuid)
// @Param        type        query string false "Type" Enums(income, expense)
// @Param        category    query string false "Category"
// @Param        status      query string false "Status" Enums(pending, completed, cancelled)
// @Param        date_from   query string false "First day (YYYY-MM-DD)"
// @Param        date_to     query string false "Last day (YYYY-MM-DD)"
// @Param        search      query string false "Search term (description, reference)"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Param        order_by    query string false "Order by field" default(date)
// @Param        order_dir   query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var filter ledgerapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	txs, total, err := h.transactionService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateTransaction
// @Summary      Update a pending transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id      path string true "Transaction ID" format(uuid)
// @Param        request body ledgerapp.UpdateTransactionRequest true "Transaction update request"
// @Success      200 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	transactionID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req ledgerapp.UpdateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.transactionService.Update(c.Request.Context(), ownerID, transactionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// Complete godoc
// @ID           completeTransaction
// @Summary      Mark a transaction completed
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/{id}/complete [post]
func (h *TransactionHandler) Complete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	transactionID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.transactionService.MarkCompleted(c.Request.Context(), ownerID, transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// Cancel godoc
// @ID           cancelTransaction
// @Summary      Cancel a pending transaction
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	transactionID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.transactionService.Cancel(c.Request.Context(), ownerID, transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// Delete godoc
// @ID           deleteTransaction
// @Summary      Delete a transaction
// @Tags         transactions
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	transactionID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), ownerID, transactionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Summary godoc
// @ID           getTransactionSummary
// @Summary      Income and expense summary
// @Description  Totals per currency for a period, the current month by default
// @Tags         transactions
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        from        query string false "First day (YYYY-MM-DD)"
// @Param        to          query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[ledgerapp.SummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req ledgerapp.SummaryRequest
	if !h.bindQuery(c, &req) {
		return
	}

	summary, err := h.transactionService.Summary(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
