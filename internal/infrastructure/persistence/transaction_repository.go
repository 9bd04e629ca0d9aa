package persistence

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByIDForOwner finds a transaction by ID for a specific owner
func (r *GormTransactionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
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

// FindAllForOwner finds all transactions for an owner with filtering
func (r *GormTransactionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	query = paginate(query, filter, TransactionSortFields, "date DESC")

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toTransactions(txModels), nil
}

// CountForOwner counts transactions for an owner with optional filters
func (r *GormTransactionRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindInPeriod returns transactions dated within [from, to], oldest first
func (r *GormTransactionRepository) FindInPeriod(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID, from, to civil.Date) ([]ledger.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.db.WithContext(ctx).
		Where("owner_id = ? AND date >= ? AND date <= ?", ownerID, models.DateValue(from), models.DateValue(to))
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	}
	if err := query.Order("date ASC").Order("created_at ASC").Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toTransactions(txModels), nil
}

// ExistsByReference reports whether a transaction with the reference already exists
func (r *GormTransactionRepository) ExistsByReference(ctx context.Context, ownerID uuid.UUID, reference string) (bool, error) {
	if reference == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("owner_id = ? AND reference = ?", ownerID, reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a transaction with an optimistic version check
func (r *GormTransactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	return saveVersioned(r.db.WithContext(ctx), models.TransactionModelFromDomain(t), t.OwnerID, t.Version)
}

// DeleteForOwner deletes a transaction for an owner
func (r *GormTransactionRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.TransactionModel{}, ownerID, id)
}

func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "lease_id":
			query = query.Where("lease_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "date_from":
			if d, ok := filterDate(value); ok {
				query = query.Where("date >= ?", d)
			}
		case "date_to":
			if d, ok := filterDate(value); ok {
				query = query.Where("date <= ?", d)
			}
		}
	}
	return query
}

// filterDate accepts a civil.Date, a *civil.Date or an ISO date string
func filterDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case civil.Date:
		return models.DateValue(v), v.IsValid()
	case *civil.Date:
		if v == nil {
			return time.Time{}, false
		}
		return models.DateValue(*v), v.IsValid()
	case string:
		d, err := civil.ParseDate(v)
		if err != nil {
			return time.Time{}, false
		}
		return models.DateValue(d), true
	}
	return time.Time{}, false
}

func toTransactions(txModels []models.TransactionModel) []ledger.Transaction {
	txs := make([]ledger.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = *txModels[i].ToDomain()
	}
	return txs
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
