package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// AggregateModel holds the columns every aggregate table shares. Version
// backs optimistic locking on updates.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot copies identity, timestamps and version from a
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID, m.Version = a.ID, a.Version
	m.CreatedAt, m.UpdatedAt = a.CreatedAt, a.UpdatedAt
}

// ToDomainAggregateRoot rebuilds the aggregate header. Pending events start empty.
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	var root shared.BaseAggregateRoot
	root.ID, root.Version = m.ID, m.Version
	root.CreatedAt, root.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return root
}
