package property

import (
	"context"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	// FindByIDForOwner finds a property by ID for a specific owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Property, error)

	// FindAllForOwner finds all properties for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Property, error)

	// CountForOwner counts properties for an owner with optional filters
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsForOwner reports whether a property exists for the owner
	ExistsForOwner(ctx context.Context, ownerID, id uuid.UUID) (bool, error)

	// Save creates or updates a property with an optimistic version check
	Save(ctx context.Context, p *Property) error

	// DeleteForOwner deletes a property for an owner
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

// TenantRepository defines the interface for renter persistence
type TenantRepository interface {
	// FindByIDForOwner finds a renter by ID for a specific owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Tenant, error)

	// FindByIDs loads several renters at once; missing IDs are skipped
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]Tenant, error)

	// FindAllForOwner finds all renters for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Tenant, error)

	// CountForOwner counts renters for an owner with optional filters
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if an email is already used by another renter of the owner
	ExistsByEmail(ctx context.Context, ownerID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a renter with an optimistic version check
	Save(ctx context.Context, t *Tenant) error

	// DeleteForOwner deletes a renter for an owner
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
