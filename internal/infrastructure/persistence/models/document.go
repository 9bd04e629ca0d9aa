package models

import (
	"github.com/dansever/estait-app-sub000/internal/domain/document"
	"github.com/google/uuid"
)

// DocumentModel is the persistence model for document metadata
type DocumentModel struct {
	OwnedAggregateModel
	PropertyID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	LeaseID     *uuid.UUID        `gorm:"type:uuid;index"`
	Name        string            `gorm:"type:varchar(255);not null"`
	Category    document.Category `gorm:"type:varchar(20);not null;default:'other'"`
	ContentType string            `gorm:"type:varchar(100);not null"`
	Size        int64             `gorm:"not null;default:0"`
	StorageKey  string            `gorm:"type:varchar(500);not null;uniqueIndex"`
	Status      document.Status   `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	return &document.Document{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		PropertyID:         m.PropertyID,
		LeaseID:            m.LeaseID,
		Name:               m.Name,
		Category:           m.Category,
		ContentType:        m.ContentType,
		Size:               m.Size,
		StorageKey:         m.StorageKey,
		Status:             m.Status,
	}
}

// FromDomain populates the persistence model from a domain Document
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.FromDomainOwnedAggregateRoot(d.OwnedAggregateRoot)
	m.PropertyID = d.PropertyID
	m.LeaseID = d.LeaseID
	m.Name = d.Name
	m.Category = d.Category
	m.ContentType = d.ContentType
	m.Size = d.Size
	m.StorageKey = d.StorageKey
	m.Status = d.Status
}

// DocumentModelFromDomain creates a new persistence model from a domain Document
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}
