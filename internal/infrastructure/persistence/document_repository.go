package persistence

import (
	"context"
	"errors"

	"github.com/dansever/estait-app-sub000/internal/domain/document"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByIDForOwner finds a document by ID for a specific owner
func (r *GormDocumentRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner finds all documents for an owner with filtering
func (r *GormDocumentRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]document.Document, error) {
	var documentModels []models.DocumentModel
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	query = paginate(query, filter, DocumentSortFields, "created_at DESC")

	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}

	documents := make([]document.Document, len(documentModels))
	for i := range documentModels {
		documents[i] = *documentModels[i].ToDomain()
	}
	return documents, nil
}

// CountForOwner counts documents for an owner with optional filters
func (r *GormDocumentRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a document with an optimistic version check
func (r *GormDocumentRepository) Save(ctx context.Context, d *document.Document) error {
	return saveVersioned(r.db.WithContext(ctx), models.DocumentModelFromDomain(d), d.OwnerID, d.Version)
}

// DeleteForOwner deletes a document row for an owner
func (r *GormDocumentRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.DocumentModel{}, ownerID, id)
}

func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "lease_id":
			query = query.Where("lease_id = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ document.DocumentRepository = (*GormDocumentRepository)(nil)
