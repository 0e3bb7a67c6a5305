package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DiscountRecord is the append-only audit row for one successful benefit
// application. ComputedAmount is the policy output before splitting;
// AppliedToTicket + CreditedToBalance always sum to it.
type DiscountRecord struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	TicketID          snowflake.ID `gorm:"not null;index" json:"ticket_id"`
	InvoiceKey        string       `gorm:"not null;index" json:"invoice_key"`
	ComputedAmount    int64        `gorm:"not null" json:"computed_amount"`
	AppliedToTicket   int64        `gorm:"not null" json:"applied_to_ticket"`
	CreditedToBalance int64        `gorm:"not null" json:"credited_to_balance"`
	AppliedAt         time.Time    `gorm:"not null" json:"applied_at"`
}

// TableName sets the database table name.
func (DiscountRecord) TableName() string { return "discount_records" }
