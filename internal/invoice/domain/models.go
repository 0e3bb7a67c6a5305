package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceRecord stores a fiscal document presented for a benefit, keyed by
// its external access key. ConsumedByTicketID is set at most once, via the
// conditional update in Repository.Consume; that single transition is what
// guarantees at-most-one ticket per invoice under races.
type InvoiceRecord struct {
	InvoiceKey       string         `gorm:"primaryKey;column:invoice_key" json:"invoice_key"`
	TotalValue       int64          `gorm:"not null" json:"total_value"`
	InvoiceAt        time.Time      `gorm:"not null" json:"invoice_at"`
	DestPostalCode   string         `gorm:"not null" json:"dest_postal_code"`
	RawPayload       datatypes.JSON `gorm:"type:jsonb" json:"-"`
	ConsumedByTicket *snowflake.ID  `gorm:"column:consumed_by_ticket_id" json:"consumed_by_ticket_id,omitempty"`
	ConsumedAt       *time.Time     `json:"consumed_at,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceRecord) TableName() string { return "invoice_records" }

var (
	ErrAlreadyUsed = errors.New("invoice_already_used")
)
