package ledger

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)
	// FindAllForOwner supports the property_id, lease_id, type, category,
	// status, date_from and date_to filters
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Transaction, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
	// FindInPeriod returns transactions dated within [from, to], optionally for one property
	FindInPeriod(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID, from, to civil.Date) ([]Transaction, error)
	ExistsByReference(ctx context.Context, ownerID uuid.UUID, reference string) (bool, error)
	Save(ctx context.Context, t *Transaction) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
