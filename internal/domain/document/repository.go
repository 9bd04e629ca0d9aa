package document

import (
	"context"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentRepository defines the interface for document metadata persistence
type DocumentRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Document, error)
	// FindAllForOwner supports the property_id, lease_id, category and status filters
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Document, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, d *Document) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
