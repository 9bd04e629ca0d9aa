package document

import (
	"fmt"
	"path"
	"strings"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted upload (25 MiB)
const MaxFileSize int64 = 25 << 20

// Category groups documents in the property file
type Category string

const (
	CategoryLease      Category = "lease"
	CategoryInsurance  Category = "insurance"
	CategoryInspection Category = "inspection"
	CategoryReceipt    Category = "receipt"
	CategoryTax        Category = "tax"
	CategoryOther      Category = "other"
)

// IsValid checks if the category is a known Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryLease, CategoryInsurance, CategoryInspection, CategoryReceipt, CategoryTax, CategoryOther:
		return true
	}
	return false
}

// Status tracks the upload handshake
type Status string

const (
	StatusPending  Status = "pending"
	StatusUploaded Status = "uploaded"
)

// allowedContentTypes maps accepted MIME types to their canonical extension
var allowedContentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/webp":         ".webp",
	"image/heic":         ".heic",
	"text/plain":         ".txt",
	"text/csv":           ".csv",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

// IsAllowedContentType reports whether uploads of contentType are accepted
func IsAllowedContentType(contentType string) bool {
	_, ok := allowedContentTypes[normalizeContentType(contentType)]
	return ok
}

func normalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

var (
	ErrUnsupportedContentType = shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "File type is not allowed")
	ErrFileTooLarge           = shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the 25 MiB limit")
	ErrEmptyFile              = shared.NewDomainError("EMPTY_FILE", "File is empty")
	ErrNotUploaded            = shared.NewDomainError("DOCUMENT_NOT_UPLOADED", "Document upload has not been confirmed")
	ErrAlreadyUploaded        = shared.NewDomainError("DOCUMENT_ALREADY_UPLOADED", "Document upload was already confirmed")
)

// Document is the metadata of a file stored for a property
type Document struct {
	shared.OwnedAggregateRoot
	PropertyID  uuid.UUID
	LeaseID     *uuid.UUID
	Name        string
	Category    Category
	ContentType string
	Size        int64
	StorageKey  string
	Status      Status
}

// NewDocument creates pending document metadata and derives its storage key
func NewDocument(ownerID, propertyID uuid.UUID, leaseID *uuid.UUID, name string, category Category, contentType string, size int64) (*Document, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Document name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Document name cannot exceed 255 characters")
	}
	if category == "" {
		category = CategoryOther
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown document category")
	}
	ct := normalizeContentType(contentType)
	ext, ok := allowedContentTypes[ct]
	if !ok {
		return nil, ErrUnsupportedContentType
	}
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	doc := &Document{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		PropertyID:         propertyID,
		LeaseID:            leaseID,
		Name:               name,
		Category:           category,
		ContentType:        ct,
		Size:               size,
		Status:             StatusPending,
	}
	doc.StorageKey = BuildStorageKey(ownerID, propertyID, doc.ID, ext)
	return doc, nil
}

// NewStoredDocument creates metadata for a file the server wrote to storage
// itself, so no upload handshake is needed
func NewStoredDocument(ownerID, propertyID uuid.UUID, leaseID *uuid.UUID, name string, category Category, contentType string, size int64) (*Document, error) {
	doc, err := NewDocument(ownerID, propertyID, leaseID, name, category, contentType, size)
	if err != nil {
		return nil, err
	}
	doc.Status = StatusUploaded
	doc.AddDomainEvent(NewDocumentUploadedEvent(doc))
	return doc, nil
}

// BuildStorageKey returns the object key of a document:
// <owner>/<property>/<document><ext>
func BuildStorageKey(ownerID, propertyID, documentID uuid.UUID, ext string) string {
	return path.Join(ownerID.String(), propertyID.String(), fmt.Sprintf("%s%s", documentID, ext))
}

// ConfirmUpload marks the object as stored. size is the size reported by the store.
func (d *Document) ConfirmUpload(size int64) error {
	if d.Status == StatusUploaded {
		return ErrAlreadyUploaded
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if size > 0 {
		d.Size = size
	}
	d.Status = StatusUploaded
	d.MarkModified()
	d.AddDomainEvent(NewDocumentUploadedEvent(d))
	return nil
}

// IsUploaded reports whether the object exists in storage
func (d *Document) IsUploaded() bool {
	return d.Status == StatusUploaded
}

// Rename changes the display name and category
func (d *Document) Rename(name string, category Category) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Document name cannot be empty")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown document category")
	}
	d.Name = name
	d.Category = category
	d.MarkModified()
	return nil
}
