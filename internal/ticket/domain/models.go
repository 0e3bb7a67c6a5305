package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// TicketStatus is the lifecycle state of a parking session.
type TicketStatus string

const (
	StatusOpen      TicketStatus = "OPEN"
	StatusPaid      TicketStatus = "PAID"
	StatusCancelled TicketStatus = "CANCELLED"
)

// Ticket is a billable parking session. Amounts are centavos. A ticket is
// mutable only while OPEN: discounts reduce CurrentValue, settlement moves it
// to PAID. PAID and CANCELLED are terminal.
type Ticket struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID `gorm:"not null;index" json:"user_id"`
	TypeID        snowflake.ID `gorm:"not null" json:"type_id"`
	Status        TicketStatus `gorm:"type:text;not null" json:"status"`
	OriginalValue int64        `gorm:"not null" json:"original_value"`
	CurrentValue  int64        `gorm:"not null" json:"current_value"`
	EntryAt       time.Time    `gorm:"not null" json:"entry_at"`
	ExitAt        time.Time    `gorm:"not null" json:"exit_at"`
	Plate         string       `gorm:"not null" json:"plate"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Ticket) TableName() string { return "tickets" }

// NewTicket opens a session. CurrentValue starts at OriginalValue.
func NewTicket(id, userID, typeID snowflake.ID, originalValue int64, entryAt, exitAt time.Time, plate string, now time.Time) (*Ticket, error) {
	if plate == "" {
		return nil, ErrInvalidPlate
	}
	if originalValue < 0 {
		return nil, ErrInvalidAmount
	}
	if !exitAt.After(entryAt) {
		return nil, ErrInvalidWindow
	}
	return &Ticket{
		ID:            id,
		UserID:        userID,
		TypeID:        typeID,
		Status:        StatusOpen,
		OriginalValue: originalValue,
		CurrentValue:  originalValue,
		EntryAt:       entryAt.UTC(),
		ExitAt:        exitAt.UTC(),
		Plate:         plate,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}, nil
}

// ApplyDiscount reduces CurrentValue by amount, floored at zero. Only legal
// while OPEN; never touches Status.
func (t *Ticket) ApplyDiscount(amount int64) error {
	if t.Status != StatusOpen {
		return ErrTicketNotOpen
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	next := t.CurrentValue - amount
	if next < 0 {
		next = 0
	}
	t.CurrentValue = next
	return nil
}

// Settle transitions the ticket to PAID. CurrentValue is left as-is: it is
// the amount due at settlement time.
func (t *Ticket) Settle() error {
	if t.Status != StatusOpen {
		return ErrTicketNotOpen
	}
	t.Status = StatusPaid
	return nil
}

// WithinWindow reports whether ts falls inside [EntryAt, ExitAt].
func (t *Ticket) WithinWindow(ts time.Time) bool {
	return !ts.Before(t.EntryAt) && !ts.After(t.ExitAt)
}

var (
	ErrNotFound           = errors.New("ticket_not_found")
	ErrNotOwner           = errors.New("ticket_not_owner")
	ErrTicketNotOpen      = errors.New("ticket_not_open")
	ErrNoActiveTicket     = errors.New("no_active_ticket")
	ErrActiveTicketExists = errors.New("active_ticket_exists")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidPlate       = errors.New("invalid_plate")
	ErrInvalidWindow      = errors.New("invalid_window")
)
