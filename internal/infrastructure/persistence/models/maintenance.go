package models

import (
	"time"

	"github.com/dansever/estait-app-sub000/internal/domain/maintenance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaintenanceTaskModel is the persistence model for maintenance tasks
type MaintenanceTaskModel struct {
	OwnedAggregateModel
	PropertyID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Title       string               `gorm:"type:varchar(200);not null"`
	Description string               `gorm:"type:text"`
	Priority    maintenance.Priority `gorm:"type:varchar(10);not null;default:'medium'"`
	Status      maintenance.Status   `gorm:"type:varchar(20);not null;default:'open';index"`
	DueDate     *time.Time           `gorm:"type:date"`
	CompletedAt *time.Time           `gorm:"type:timestamptz"`
	Cost        decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	AssignedTo  string               `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (MaintenanceTaskModel) TableName() string {
	return "maintenance_tasks"
}

// ToDomain converts the persistence model to a domain Task
func (m *MaintenanceTaskModel) ToDomain() *maintenance.Task {
	return &maintenance.Task{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		PropertyID:         m.PropertyID,
		Title:              m.Title,
		Description:        m.Description,
		Priority:           m.Priority,
		Status:             m.Status,
		DueDate:            DatePtrOf(m.DueDate),
		CompletedAt:        m.CompletedAt,
		Cost:               m.Cost,
		AssignedTo:         m.AssignedTo,
	}
}

// FromDomain populates the persistence model from a domain Task
func (m *MaintenanceTaskModel) FromDomain(t *maintenance.Task) {
	m.FromDomainOwnedAggregateRoot(t.OwnedAggregateRoot)
	m.PropertyID = t.PropertyID
	m.Title = t.Title
	m.Description = t.Description
	m.Priority = t.Priority
	m.Status = t.Status
	m.DueDate = DatePtrValue(t.DueDate)
	m.CompletedAt = t.CompletedAt
	m.Cost = t.Cost
	m.AssignedTo = t.AssignedTo
}

// MaintenanceTaskModelFromDomain creates a new persistence model from a domain Task
func MaintenanceTaskModelFromDomain(t *maintenance.Task) *MaintenanceTaskModel {
	m := &MaintenanceTaskModel{}
	m.FromDomain(t)
	return m
}
