// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: base models (BaseModel, AggregateModel, OwnedAggregateModel) and date column helpers
//   - property.go: properties and tenants (renters)
//   - leasing.go: leases
//   - document.go: document metadata
//   - ledger.go: income and expense transactions
//   - maintenance.go: maintenance tasks
//
// Calendar dates are civil.Date in the domain and DATE columns holding UTC
// midnight here.
package models
