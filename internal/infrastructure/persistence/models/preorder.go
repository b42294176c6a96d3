package models

import (
	"time"

	"github.com/preorder/backoffice/internal/domain/preorder"
)

// RoundModel is the persistence model for the Round domain entity.
type RoundModel struct {
	BaseModel
	Name         string    `gorm:"type:varchar(200);not null"`
	StartDate    time.Time `gorm:"not null;index"`
	EndDate      time.Time `gorm:"not null"`
	DeliveryDate time.Time `gorm:"not null"`
	IsActive     bool      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (RoundModel) TableName() string {
	return "preorder_rounds"
}

// ToDomain converts the persistence model to a domain Round entity.
func (m *RoundModel) ToDomain() *preorder.Round {
	return &preorder.Round{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		DeliveryDate:      m.DeliveryDate,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Round entity.
func (m *RoundModel) FromDomain(r *preorder.Round) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Name = r.Name
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.DeliveryDate = r.DeliveryDate
	m.IsActive = r.IsActive
}

// RoundModelFromDomain creates a new persistence model from a domain Round entity.
func RoundModelFromDomain(r *preorder.Round) *RoundModel {
	m := &RoundModel{}
	m.FromDomain(r)
	return m
}
