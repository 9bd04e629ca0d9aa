package document

import (
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeDocument     = "Document"
	EventTypeDocumentUploaded = "DocumentUploaded"
)

// DocumentUploadedEvent is raised once the object is confirmed in storage
type DocumentUploadedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID  `json:"document_id"`
	PropertyID uuid.UUID  `json:"property_id"`
	LeaseID    *uuid.UUID `json:"lease_id,omitempty"`
	Category   Category   `json:"category"`
	Size       int64      `json:"size"`
}

// NewDocumentUploadedEvent creates a new DocumentUploadedEvent
func NewDocumentUploadedEvent(d *Document) *DocumentUploadedEvent {
	return &DocumentUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentUploaded, AggregateTypeDocument, d.ID, d.OwnerID),
		DocumentID:      d.ID,
		PropertyID:      d.PropertyID,
		LeaseID:         d.LeaseID,
		Category:        d.Category,
		Size:            d.Size,
	}
}
