package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ScsCep is an entry in the postal-code eligibility registry. Only invoices
// delivered to an active CEP unlock benefits.
type ScsCep struct {
	Cep       string    `gorm:"primaryKey" json:"cep"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ScsCep) TableName() string { return "scs_ceps" }

type Repository interface {
	// IsActive reports whether the normalized 8-digit CEP is registered and
	// active. Unknown CEPs are inactive.
	IsActive(ctx context.Context, db *gorm.DB, cep string) (bool, error)
	Insert(ctx context.Context, db *gorm.DB, entry *ScsCep) error
}
