package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// TicketType is an immutable catalog entry mapping a session length in hours
// to a price. Seeded at startup, read-only afterwards.
type TicketType struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Hours        int          `gorm:"not null;uniqueIndex" json:"hours"`
	PricePerHour int64        `gorm:"not null" json:"price_per_hour"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TicketType) TableName() string { return "ticket_types" }

// TotalValue is the full session price in centavos.
func (t TicketType) TotalValue() int64 {
	return int64(t.Hours) * t.PricePerHour
}

// Validate enforces the catalog constraints.
func (t TicketType) Validate() error {
	if t.Hours < 1 || t.Hours > 4 {
		return ErrInvalidHours
	}
	if t.PricePerHour <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

var (
	ErrInvalidHours = errors.New("invalid_hours")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrNotFound     = errors.New("ticket_type_not_found")
)
