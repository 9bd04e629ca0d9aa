package integration

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
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/auth"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/event"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/storage"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/dto"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/handler"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/middleware"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/router"
	"github.com/dansever/estait-app-sub000/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// today is the pinned date the integration tests run on
var today = time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)

type testApp struct {
	engine    *gin.Engine
	db        *gorm.DB
	bus       *event.InMemoryEventBus
	events    *testutil.EventRecorder
	leaseRepo *persistence.GormLeaseRepository
	txRepo    *persistence.GormTransactionRepository
}

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// newTestApp mounts the production route table over db with the clock
// pinned to today
func newTestApp(t *testing.T, db *gorm.DB) *testApp {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	clock := shared.FixedClock{At: today}
	bus := event.NewInMemoryEventBus(zap.NewNop())
	events := testutil.NewEventRecorder(
		leasing.EventTypeLeaseCreated,
		leasing.EventTypeLeaseTerminated,
		leasing.EventTypeLeaseStatusChanged,
		ledger.EventTypeTransactionRecorded,
	)
	bus.Subscribe(events)

	propertyRepo := persistence.NewGormPropertyRepository(db)
	tenantRepo := persistence.NewGormTenantRepository(db)
	leaseRepo := persistence.NewGormLeaseRepository(db)
	txRepo := persistence.NewGormTransactionRepository(db)
	taskRepo := persistence.NewGormTaskRepository(db)
	docRepo := persistence.NewGormDocumentRepository(db)

	leaseService := leasingapp.NewLeaseService(leaseRepo, propertyRepo, tenantRepo, bus, clock)
	docService := documentapp.NewDocumentService(docRepo, propertyRepo, leaseRepo,
		storage.NewMemoryObjectStorage(), bus, documentapp.WithClock(clock))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine, router.WithAPIMiddleware(
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Verifier:         auth.NewTokenVerifier(config.JWTConfig{Secret: "integration-secret-0123456789abcdef"}),
			SkipPathPrefixes: []string{"/api/v1/system/"},
		}),
	))
	router.Mount(engine, r, router.Handlers{
		Property:    handler.NewPropertyHandler(propertyapp.NewPropertyService(propertyRepo, leaseRepo, taskRepo, txRepo, bus, clock), leaseService),
		Tenant:      handler.NewTenantHandler(propertyapp.NewTenantService(tenantRepo, leaseRepo, bus)),
		Lease:       handler.NewLeaseHandler(leaseService, docService),
		Document:    handler.NewDocumentHandler(docService),
		Transaction: handler.NewTransactionHandler(ledgerapp.NewTransactionService(txRepo, propertyRepo, leaseRepo, bus, clock)),
		Maintenance: handler.NewMaintenanceHandler(maintenanceapp.NewTaskService(taskRepo, propertyRepo, bus, clock)),
		Dashboard:   handler.NewDashboardHandler(leaseService),
		System:      handler.NewSystemHandler(),
	}, nil)

	return &testApp{
		engine:    engine,
		db:        db,
		bus:       bus,
		events:    events,
		leaseRepo: leaseRepo,
		txRepo:    txRepo,
	}
}

// do sends a request on behalf of owner
func (a *testApp) do(t *testing.T, owner uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, bytes.NewReader(raw))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != uuid.Nil {
		req.Header.Set(middleware.DevOwnerHeader, owner.String())
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

func (a *testApp) createProperty(t *testing.T, owner uuid.UUID, name string) uuid.UUID {
	t.Helper()
	w := a.do(t, owner, http.MethodPost, "/properties", map[string]any{
		"name":    name,
		"type":    "apartment",
		"address": map[string]any{"street": "7 Allenby Street", "city": "Tel Aviv", "country": "IL"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[propertyapp.PropertyResponse](t, w).Data.ID
}

func (a *testApp) createLease(t *testing.T, owner, propertyID uuid.UUID, start, end string, extra map[string]any) leasingapp.LeaseResponse {
	t.Helper()
	body := map[string]any{
		"property_id": propertyID,
		"lease_start": start,
		"lease_end":   end,
		"rent_amount": "4200.00",
		"currency":    "ILS",
	}
	for k, v := range extra {
		body[k] = v
	}
	w := a.do(t, owner, http.MethodPost, "/leases", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[leasingapp.LeaseResponse](t, w).Data
}
