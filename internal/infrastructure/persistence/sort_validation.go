package persistence

import (
	"strings"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// paginate applies the whitelisted ordering and the page window of filter.
// A zero page size returns every row.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string) *gorm.DB {
	if field := ValidateSortField(filter.OrderBy, allowed, ""); field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order(defaultOrder)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"type":         true,
	"status":       true,
	"city":         true,
	"bedrooms":     true,
	"market_value": true,
}

// TenantSortFields contains allowed sort fields for renters
var TenantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"first_name": true,
	"last_name":  true,
	"email":      true,
}

// LeaseSortFields contains allowed sort fields for leases
var LeaseSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"lease_start":   true,
	"lease_end":     true,
	"rent_amount":   true,
	"terminated_at": true,
}

// DocumentSortFields contains allowed sort fields for documents
var DocumentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"category":   true,
	"size":       true,
}

// TransactionSortFields contains allowed sort fields for ledger transactions
var TransactionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"date":       true,
	"amount":     true,
	"category":   true,
	"status":     true,
}

// MaintenanceTaskSortFields contains allowed sort fields for maintenance tasks
var MaintenanceTaskSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"priority":   true,
	"status":     true,
	"due_date":   true,
	"cost":       true,
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
