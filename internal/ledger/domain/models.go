package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// MovementDirection marks whether a movement adds to or draws from the
// user's balance.
type MovementDirection string

const (
	DirectionIn  MovementDirection = "IN"
	DirectionOut MovementDirection = "OUT"
)

// MovementKind classifies balance-affecting events.
type MovementKind string

const (
	KindManualCredit          MovementKind = "MANUAL_CREDIT"
	KindDiscountSurplusCredit MovementKind = "DISCOUNT_SURPLUS_CREDIT"
	KindCreditUseOnTicket     MovementKind = "CREDIT_USE_ON_TICKET"
)

// CreditMovement is one append-only ledger row. Amount is always positive;
// Direction carries the sign. The signed sum of a user's movements must equal
// users.credit_balance at all times: both are written in one transaction.
type CreditMovement struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID           snowflake.ID      `gorm:"not null;index" json:"user_id"`
	Kind             MovementKind      `gorm:"type:text;not null" json:"kind"`
	Amount           int64             `gorm:"not null" json:"amount"`
	Direction        MovementDirection `gorm:"type:text;not null" json:"direction"`
	ReferenceTicket  *snowflake.ID     `gorm:"column:reference_ticket_id" json:"reference_ticket_id,omitempty"`
	ReferenceInvoice *string           `gorm:"column:reference_invoice_key" json:"reference_invoice_key,omitempty"`
	Description      string            `json:"description,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CreditMovement) TableName() string { return "credit_movements" }

// Signed returns the movement's contribution to the balance.
func (m CreditMovement) Signed() int64 {
	if m.Direction == DirectionOut {
		return -m.Amount
	}
	return m.Amount
}

var (
	ErrInvalidAmount    = errors.New("invalid_credit_amount")
	ErrInvalidDirection = errors.New("invalid_credit_direction")
	ErrInvalidKind      = errors.New("invalid_credit_kind")
)
