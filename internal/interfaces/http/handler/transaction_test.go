package handler

import (
	"net/http"
	"testing"

	ledgerapp "github.com/dansever/estait-app-sub000/internal/application/ledger"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testAPI) createTransaction(t *testing.T, body map[string]any) ledgerapp.TransactionResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/transactions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[ledgerapp.TransactionResponse](t, w).Data
}

func TestTransactionHandler_Create(t *testing.T) {
	api := newTestAPI(t)
	propertyID := api.createProperty(t, "Harbour flat")
	lease := api.createLease(t, propertyID, "2024-01-01", "2024-12-31")

	tx := api.createTransaction(t, map[string]any{
		"property_id": propertyID,
		"lease_id":    lease.ID,
		"type":        "income",
		"category":    "rent",
		"amount":      "1500.00",
		"date":        "2024-06-01",
		"reference":   "BANK-0601",
	})
	assert.Equal(t, "pending", tx.Status)
	assert.Equal(t, "USD", tx.Currency)
	require.NotNil(t, tx.LeaseID)
	assert.Equal(t, lease.ID, *tx.LeaseID)
	assert.Equal(t, "2024-06-01", tx.Date.String())

	w := api.do(t, http.MethodGet, "/transactions/"+tx.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BANK-0601", decode[ledgerapp.TransactionResponse](t, w).Data.Reference)

	w = api.do(t, http.MethodPost, "/transactions", map[string]any{
		"property_id": propertyID,
		"type":        "income",
		"amount":      "10",
		"date":        "2024-06-02",
		"reference":   "BANK-0601",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "TRANSACTION_REFERENCE_EXISTS", decode[any](t, w).Error.Code)
}

func TestTransactionHandler_CreateRejects(t *testing.T) {
	api := newTestAPI(t)
	propertyID := api.createProperty(t, "Harbour flat")
	otherProperty := api.createProperty(t, "Harbour loft")
	otherLease := api.createLease(t, otherProperty, "2024-01-01", "2024-12-31")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "zero amount",
			body:       map[string]any{"property_id": propertyID, "type": "expense", "amount": "0", "date": "2024-06-01"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
		{
			name:       "unknown type",
			body:       map[string]any{"property_id": propertyID, "type": "transfer", "amount": "5", "date": "2024-06-01"},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "missing date",
			body:       map[string]any{"property_id": propertyID, "type": "income", "amount": "5"},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "lease of another property",
			body:       map[string]any{"property_id": propertyID, "lease_id": otherLease.ID, "type": "income", "amount": "5", "date": "2024-06-01"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "LEASE_PROPERTY_MISMATCH",
		},
		{
			name:       "unknown property",
			body:       map[string]any{"property_id": uuid.New(), "type": "income", "amount": "5", "date": "2024-06-01"},
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/transactions", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decode[any](t, w).Error.Code)
		})
	}
}

func TestTransactionHandler_StatusFlow(t *testing.T) {
	api := newTestAPI(t)
	propertyID := api.createProperty(t, "Harbour flat")
	tx := api.createTransaction(t, map[string]any{
		"property_id": propertyID,
		"type":        "expense",
		"category":    "maintenance",
		"amount":      "320",
		"date":        "2024-06-03",
	})
	path := "/transactions/" + tx.ID.String()

	w := api.do(t, http.MethodPut, path, map[string]any{
		"type":     "expense",
		"category": "utilities",
		"amount":   "340",
		"date":     "2024-06-04",
		"version":  tx.Version,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[ledgerapp.TransactionResponse](t, w).Data
	assert.Equal(t, "utilities", updated.Category)
	assert.True(t, decimal.NewFromInt(340).Equal(updated.Amount))

	w = api.do(t, http.MethodPost, path+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	completed := decode[ledgerapp.TransactionResponse](t, w).Data
	assert.Equal(t, "completed", completed.Status)

	w = api.do(t, http.MethodPost, path+"/complete", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", decode[any](t, w).Error.Code)

	w = api.do(t, http.MethodPut, path, map[string]any{
		"type":    "expense",
		"amount":  "1",
		"date":    "2024-06-04",
		"version": completed.Version,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "settled transactions are read-only")
	assert.Equal(t, dto.ErrCodeInvalidState, decode[any](t, w).Error.Code)

	w = api.do(t, http.MethodPost, path+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[ledgerapp.TransactionResponse](t, w).Data.Status)

	w = api.do(t, http.MethodPost, path+"/cancel", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionHandler_ListFilters(t *testing.T) {
	api := newTestAPI(t)
	propertyID := api.createProperty(t, "Harbour flat")
	otherProperty := api.createProperty(t, "Harbour loft")

	api.createTransaction(t, map[string]any{"property_id": propertyID, "type": "income", "category": "rent", "amount": "1500", "date": "2024-06-01", "completed": true})
	api.createTransaction(t, map[string]any{"property_id": propertyID, "type": "expense", "category": "tax", "amount": "90", "date": "2024-06-02"})
	api.createTransaction(t, map[string]any{"property_id": otherProperty, "type": "income", "category": "rent", "amount": "900", "date": "2024-06-01"})

	tests := []struct {
		query string
		want  int64
	}{
		{"", 3},
		{"?property_id=" + propertyID.String(), 2},
		{"?type=income", 2},
		{"?status=completed", 1},
		{"?category=tax", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := api.do(t, http.MethodGet, "/transactions"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decode[[]ledgerapp.TransactionResponse](t, w).Meta.Total)
		})
	}

	w := api.do(t, http.MethodGet, "/transactions?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandler_Summary(t *testing.T) {
	api := newTestAPI(t)
	propertyID := api.createProperty(t, "Harbour flat")

	for _, body := range []map[string]any{
		{"type": "income", "category": "rent", "amount": "1000", "date": "2024-06-01", "completed": true},
		{"type": "income", "category": "rent", "amount": "500", "date": "2024-06-05"},
		{"type": "expense", "category": "utilities", "amount": "300", "date": "2024-06-07"},
		{"type": "income", "category": "deposit", "amount": "200", "currency": "ILS", "date": "2024-06-02", "completed": true},
		{"type": "income", "category": "rent", "amount": "700", "date": "2024-05-20", "completed": true},
	} {
		body["property_id"] = propertyID
		api.createTransaction(t, body)
	}
	voided := api.createTransaction(t, map[string]any{
		"property_id": propertyID, "type": "expense", "amount": "999", "date": "2024-06-03",
	})
	w := api.do(t, http.MethodPost, "/transactions/"+voided.ID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/transactions/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[ledgerapp.SummaryResponse](t, w).Data
	assert.Equal(t, "2024-06-01", got.From.String())
	assert.Equal(t, "2024-06-15", got.To.String())
	require.Len(t, got.Totals, 2)

	ils, usd := got.Totals[0], got.Totals[1]
	assert.Equal(t, "ILS", ils.Currency)
	assert.True(t, decimal.NewFromInt(200).Equal(ils.Income))
	assert.Equal(t, "USD", usd.Currency)
	assert.True(t, decimal.NewFromInt(1500).Equal(usd.Income), usd.Income.String())
	assert.True(t, decimal.NewFromInt(300).Equal(usd.Expense))
	assert.True(t, decimal.NewFromInt(1200).Equal(usd.Net))
	assert.True(t, decimal.NewFromInt(500).Equal(usd.Pending))
	assert.Equal(t, 3, usd.Count)

	w = api.do(t, http.MethodGet, "/transactions/summary?from=2024-05-01&to=2024-05-31&property_id="+propertyID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	may := decode[ledgerapp.SummaryResponse](t, w).Data
	require.Len(t, may.Totals, 1)
	assert.True(t, decimal.NewFromInt(700).Equal(may.Totals[0].Net))

	w = api.do(t, http.MethodGet, "/transactions/summary?from=2024-06-10&to=2024-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_RANGE", decode[any](t, w).Error.Code)

	w = api.do(t, http.MethodGet, "/transactions/summary?property_id="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
