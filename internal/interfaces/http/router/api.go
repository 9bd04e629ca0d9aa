package router

import (
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers holds every HTTP handler of the API. Lease statements need a
// document service on the lease handler; everything else is mandatory.
type Handlers struct {
	Property    *handler.PropertyHandler
	Tenant      *handler.TenantHandler
	Lease       *handler.LeaseHandler
	Document    *handler.DocumentHandler
	Transaction *handler.TransactionHandler
	Maintenance *handler.MaintenanceHandler
	Dashboard   *handler.DashboardHandler
	System      *handler.SystemHandler
}

// APIGroups builds the resource groups mounted under /api/v1
func APIGroups(h Handlers) []*DomainGroup {
	properties := NewDomainGroup("properties", "/properties").
		POST("", h.Property.Create).
		GET("", h.Property.List).
		GET("/:id", h.Property.GetByID).
		PUT("/:id", h.Property.Update).
		DELETE("/:id", h.Property.Delete).
		GET("/:id/overview", h.Property.Overview).
		GET("/:id/leases", h.Property.Leases).
		POST("/:id/archive", h.Property.Archive).
		POST("/:id/restore", h.Property.Restore)

	tenants := NewDomainGroup("tenants", "/tenants").
		POST("", h.Tenant.Create).
		GET("", h.Tenant.List).
		GET("/:id", h.Tenant.GetByID).
		PUT("/:id", h.Tenant.Update).
		DELETE("/:id", h.Tenant.Delete)

	leases := NewDomainGroup("leases", "/leases").
		POST("", h.Lease.Create).
		GET("", h.Lease.List).
		POST("/preview", h.Lease.Preview).
		GET("/:id", h.Lease.GetByID).
		PUT("/:id", h.Lease.Update).
		DELETE("/:id", h.Lease.Delete).
		PUT("/:id/tenant", h.Lease.AssignTenant).
		POST("/:id/terminate", h.Lease.Terminate).
		POST("/:id/reinstate", h.Lease.Reinstate).
		POST("/:id/statement", h.Lease.Statement)

	documents := NewDomainGroup("documents", "/documents").
		POST("", h.Document.InitiateUpload).
		GET("", h.Document.List).
		GET("/:id", h.Document.GetByID).
		PUT("/:id", h.Document.Rename).
		DELETE("/:id", h.Document.Delete).
		POST("/:id/confirm", h.Document.ConfirmUpload).
		GET("/:id/download", h.Document.Download)

	transactions := NewDomainGroup("transactions", "/transactions").
		POST("", h.Transaction.Create).
		GET("", h.Transaction.List).
		GET("/summary", h.Transaction.Summary).
		GET("/:id", h.Transaction.GetByID).
		PUT("/:id", h.Transaction.Update).
		DELETE("/:id", h.Transaction.Delete).
		POST("/:id/complete", h.Transaction.Complete).
		POST("/:id/cancel", h.Transaction.Cancel)

	tasks := NewDomainGroup("maintenance", "/maintenance-tasks").
		POST("", h.Maintenance.Create).
		GET("", h.Maintenance.List).
		GET("/:id", h.Maintenance.GetByID).
		PUT("/:id", h.Maintenance.Update).
		DELETE("/:id", h.Maintenance.Delete).
		POST("/:id/start", h.Maintenance.Start).
		POST("/:id/complete", h.Maintenance.Complete).
		POST("/:id/cancel", h.Maintenance.Cancel).
		POST("/:id/reopen", h.Maintenance.Reopen)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		GET("/summary", h.Dashboard.Summary)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return []*DomainGroup{properties, tenants, leases, documents, transactions, tasks, dashboard, system}
}

// Mount registers the API groups on r and the unversioned endpoints on
// engine: /health always, /swagger behind docsGuard. A nil docsGuard
// leaves the docs unmounted.
func Mount(engine *gin.Engine, r *Router, h Handlers, docsGuard gin.HandlerFunc) *gin.RouterGroup {
	for _, group := range APIGroups(h) {
		r.Register(group)
	}
	api := r.Setup()

	engine.GET("/health", h.System.Health)
	if docsGuard != nil {
		engine.GET("/swagger/*any", docsGuard, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return api
}
