package leasing

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter keys understood by LeaseRepository list queries
const (
	FilterPropertyID = "property_id"
	FilterTenantID   = "tenant_id"
	FilterStatus     = "status" // Status, evaluated on FilterAsOf
	FilterAsOf       = "as_of"  // civil.Date
)

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	// FindByIDForOwner finds a lease by ID for a specific owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Lease, error)

	// FindAllForOwner finds all leases for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Lease, error)

	// CountForOwner counts leases for an owner with optional filters
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// FindByProperty returns every lease of a property, newest period first
	FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) ([]Lease, error)

	// FindUnexpired returns leases of an owner whose effective period has not
	// ended before since. Used by the status sweep and the dashboard.
	FindUnexpired(ctx context.Context, ownerID uuid.UUID, since civil.Date) ([]Lease, error)

	// FindOwnersWithLeases lists the owners that hold at least one lease
	FindOwnersWithLeases(ctx context.Context) ([]uuid.UUID, error)

	// CountByTenant counts every lease of a renter, past ones included
	CountByTenant(ctx context.Context, ownerID, tenantID uuid.UUID) (int64, error)

	// CountByProperty counts every lease of a property, past ones included
	CountByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (int64, error)

	// CountLiveByProperty counts leases of a property that are not expired on day asOf
	CountLiveByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, asOf civil.Date) (int64, error)

	// SaveExclusive writes the lease only if no other non-terminated lease of
	// the same property overlaps its period. Conflicts return ErrLeaseOverlap.
	SaveExclusive(ctx context.Context, lease *Lease) error

	// Save writes the lease without the overlap check (terminations, notes, tenant changes)
	Save(ctx context.Context, lease *Lease) error

	// DeleteForOwner deletes a lease for an owner
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
