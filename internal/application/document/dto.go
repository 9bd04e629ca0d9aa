package document

import (
	"time"

	"github.com/dansever/estait-app-sub000/internal/domain/document"
	"github.com/google/uuid"
)

// InitiateUploadRequest starts the upload handshake of a document
type InitiateUploadRequest struct {
	PropertyID  uuid.UUID  `json:"property_id" binding:"required"`
	LeaseID     *uuid.UUID `json:"lease_id"`
	Name        string     `json:"name" binding:"required,min=1,max=255"`
	Category    string     `json:"category" binding:"omitempty,oneof=lease insurance inspection receipt tax other"`
	ContentType string     `json:"content_type" binding:"required"`
	Size        int64      `json:"size" binding:"required,min=1"`
}

// RenameDocumentRequest changes the display name and category of a document
type RenameDocumentRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Category string `json:"category" binding:"required,oneof=lease insurance inspection receipt tax other"`
	Version  int    `json:"version" binding:"required,min=1"`
}

// StatementRequest selects the language a lease statement is printed in
type StatementRequest struct {
	Language string `json:"language" form:"language" binding:"omitempty,bcp47_language_tag"`
}

// DocumentListFilter represents filter options for listing documents
type DocumentListFilter struct {
	PropertyID *uuid.UUID `form:"property_id"`
	LeaseID    *uuid.UUID `form:"lease_id"`
	Category   string     `form:"category" binding:"omitempty,oneof=lease insurance inspection receipt tax other"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending uploaded"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DocumentResponse represents document metadata in API responses
type DocumentResponse struct {
	ID          uuid.UUID  `json:"id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	LeaseID     *uuid.UUID `json:"lease_id,omitempty"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	Status      string     `json:"status"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UploadResponse carries the presigned URL the client PUTs the file to
type UploadResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// DownloadResponse carries a presigned GET URL
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToDocumentResponse converts document metadata to its response
func ToDocumentResponse(d *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		PropertyID:  d.PropertyID,
		LeaseID:     d.LeaseID,
		Name:        d.Name,
		Category:    string(d.Category),
		ContentType: d.ContentType,
		Size:        d.Size,
		Status:      string(d.Status),
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToDocumentResponses converts a slice of documents
func ToDocumentResponses(docs []document.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentResponse(&docs[i])
	}
	return responses
}
