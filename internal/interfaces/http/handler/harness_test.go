package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	documentapp "github.com/dansever/estait-app-sub000/internal/application/document"
	leasingapp "github.com/dansever/estait-app-sub000/internal/application/leasing"
	ledgerapp "github.com/dansever/estait-app-sub000/internal/application/ledger"
	maintenanceapp "github.com/dansever/estait-app-sub000/internal/application/maintenance"
	propertyapp "github.com/dansever/estait-app-sub000/internal/application/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/auth"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/event"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/storage"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/dto"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testToday is the pinned date every handler test runs on
var testToday = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

// testAPI wires the real services over an in-memory SQLite database
type testAPI struct {
	engine  *gin.Engine
	ownerID uuid.UUID
	storage *storage.MemoryObjectStorage
}

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.PropertyModel{},
		&models.TenantModel{},
		&models.LeaseModel{},
		&models.DocumentModel{},
		&models.TransactionModel{},
		&models.MaintenanceTaskModel{},
	))
	return db
}

func newTestAPI(t *testing.T, docOpts ...documentapp.ServiceOption) *testAPI {
	t.Helper()
	db := openTestDB(t)
	clock := shared.FixedClock{At: testToday}
	bus := event.NewInMemoryEventBus(zap.NewNop())
	store := storage.NewMemoryObjectStorage()

	propertyRepo := persistence.NewGormPropertyRepository(db)
	tenantRepo := persistence.NewGormTenantRepository(db)
	leaseRepo := persistence.NewGormLeaseRepository(db)
	txRepo := persistence.NewGormTransactionRepository(db)
	taskRepo := persistence.NewGormTaskRepository(db)
	docRepo := persistence.NewGormDocumentRepository(db)

	leaseService := leasingapp.NewLeaseService(leaseRepo, propertyRepo, tenantRepo, bus, clock)
	propertyService := propertyapp.NewPropertyService(propertyRepo, leaseRepo, taskRepo, txRepo, bus, clock)
	tenantService := propertyapp.NewTenantService(tenantRepo, leaseRepo, bus)
	txService := ledgerapp.NewTransactionService(txRepo, propertyRepo, leaseRepo, bus, clock)
	taskService := maintenanceapp.NewTaskService(taskRepo, propertyRepo, bus, clock)
	docService := documentapp.NewDocumentService(docRepo, propertyRepo, leaseRepo, store, bus,
		append([]documentapp.ServiceOption{documentapp.WithClock(clock)}, docOpts...)...)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Verifier: auth.NewTokenVerifier(config.JWTConfig{Secret: "handler-test-secret-0123456789abcdef"}),
		Required: false,
	}))

	properties := NewPropertyHandler(propertyService, leaseService)
	api.POST("/properties", properties.Create)
	api.GET("/properties", properties.List)
	api.GET("/properties/:id", properties.GetByID)
	api.PUT("/properties/:id", properties.Update)
	api.DELETE("/properties/:id", properties.Delete)
	api.GET("/properties/:id/overview", properties.Overview)
	api.GET("/properties/:id/leases", properties.Leases)
	api.POST("/properties/:id/archive", properties.Archive)
	api.POST("/properties/:id/restore", properties.Restore)

	tenants := NewTenantHandler(tenantService)
	api.POST("/tenants", tenants.Create)
	api.GET("/tenants", tenants.List)
	api.GET("/tenants/:id", tenants.GetByID)
	api.PUT("/tenants/:id", tenants.Update)
	api.DELETE("/tenants/:id", tenants.Delete)

	leases := NewLeaseHandler(leaseService, docService)
	api.POST("/leases", leases.Create)
	api.GET("/leases", leases.List)
	api.POST("/leases/preview", leases.Preview)
	api.GET("/leases/:id", leases.GetByID)
	api.PUT("/leases/:id", leases.Update)
	api.DELETE("/leases/:id", leases.Delete)
	api.PUT("/leases/:id/tenant", leases.AssignTenant)
	api.POST("/leases/:id/terminate", leases.Terminate)
	api.POST("/leases/:id/reinstate", leases.Reinstate)
	api.POST("/leases/:id/statement", leases.Statement)

	docs := NewDocumentHandler(docService)
	api.POST("/documents", docs.InitiateUpload)
	api.GET("/documents", docs.List)
	api.GET("/documents/:id", docs.GetByID)
	api.PUT("/documents/:id", docs.Rename)
	api.DELETE("/documents/:id", docs.Delete)
	api.POST("/documents/:id/confirm", docs.ConfirmUpload)
	api.GET("/documents/:id/download", docs.Download)

	txs := NewTransactionHandler(txService)
	api.POST("/transactions", txs.Create)
	api.GET("/transactions", txs.List)
	api.GET("/transactions/summary", txs.Summary)
	api.GET("/transactions/:id", txs.GetByID)
	api.PUT("/transactions/:id", txs.Update)
	api.DELETE("/transactions/:id", txs.Delete)
	api.POST("/transactions/:id/complete", txs.Complete)
	api.POST("/transactions/:id/cancel", txs.Cancel)

	tasks := NewMaintenanceHandler(taskService)
	api.POST("/maintenance-tasks", tasks.Create)
	api.GET("/maintenance-tasks", tasks.List)
	api.GET("/maintenance-tasks/:id", tasks.GetByID)
	api.PUT("/maintenance-tasks/:id", tasks.Update)
	api.DELETE("/maintenance-tasks/:id", tasks.Delete)
	api.POST("/maintenance-tasks/:id/start", tasks.Start)
	api.POST("/maintenance-tasks/:id/complete", tasks.Complete)
	api.POST("/maintenance-tasks/:id/cancel", tasks.Cancel)
	api.POST("/maintenance-tasks/:id/reopen", tasks.Reopen)

	dashboard := NewDashboardHandler(leaseService)
	api.GET("/dashboard/summary", dashboard.Summary)

	return &testAPI{engine: engine, ownerID: uuid.New(), storage: store}
}

// do sends a request on behalf of the API's owner
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.doAs(t, a.ownerID, method, path, body)
}

// doAs sends a request on behalf of ownerID; uuid.Nil sends no owner at all
func (a *testAPI) doAs(t *testing.T, ownerID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ownerID != uuid.Nil {
		req.Header.Set(middleware.DevOwnerHeader, ownerID.String())
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// createProperty adds a property and returns its ID
func (a *testAPI) createProperty(t *testing.T, name string) uuid.UUID {
	t.Helper()
	w := a.do(t, http.MethodPost, "/properties", map[string]any{
		"name": name,
		"type": "apartment",
		"address": map[string]any{
			"street":  "12 Harbour Road",
			"city":    "Haifa",
			"country": "IL",
		},
		"bedrooms": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[propertyapp.PropertyResponse](t, w).Data.ID
}

// createLease records a lease on propertyID and returns the response
func (a *testAPI) createLease(t *testing.T, propertyID uuid.UUID, start, end string) leasingapp.LeaseResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/leases", map[string]any{
		"property_id": propertyID,
		"lease_start": start,
		"lease_end":   end,
		"rent_amount": "1500.00",
		"currency":    "USD",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[leasingapp.LeaseResponse](t, w).Data
}
