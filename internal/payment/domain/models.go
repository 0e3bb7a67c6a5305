package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentStatus for now has a single value: settlement is synchronous and a
// recorded payment is final.
type PaymentStatus string

const StatusConfirmed PaymentStatus = "CONFIRMED"

// PaymentRecord is the immutable proof of one settled ticket. The unique
// idempotency key makes retried submissions converge on a single row.
type PaymentRecord struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	TicketID       snowflake.ID  `gorm:"not null;index" json:"ticket_id"`
	AmountPaid     int64         `gorm:"not null" json:"amount_paid"`
	Method         string        `gorm:"not null" json:"method"`
	Status         PaymentStatus `gorm:"type:text;not null" json:"status"`
	IdempotencyKey *string       `gorm:"uniqueIndex" json:"idempotency_key,omitempty"`
	PaidAt         time.Time     `gorm:"not null" json:"paid_at"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PaymentRecord) TableName() string { return "payment_records" }

var (
	ErrNotFound            = errors.New("payment_not_found")
	ErrAmountMismatch      = errors.New("payment_amount_mismatch")
	ErrInvalidAmount       = errors.New("invalid_payment_amount")
	ErrIdempotencyConflict = errors.New("idempotency_key_conflict")
)
