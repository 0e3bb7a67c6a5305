package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ApplyRequest asks for a benefit against the caller's ticket. TicketID zero
// means "my active ticket".
type ApplyRequest struct {
	UserID     snowflake.ID
	TicketID   snowflake.ID
	InvoiceKey string
}

// ApplyResult reports the outcome of one benefit application.
type ApplyResult struct {
	TicketID          snowflake.ID `json:"ticket_id"`
	InvoiceKey        string       `json:"invoice_key"`
	InvoiceValue      int64        `json:"invoice_value"`
	Policy            string       `json:"policy"`
	ComputedAmount    int64        `json:"computed_amount"`
	AppliedToTicket   int64        `json:"applied_to_ticket"`
	CreditedToBalance int64        `json:"credited_to_balance"`
	ValueBefore       int64        `json:"value_before"`
	ValueAfter        int64        `json:"value_after"`
}

type Service interface {
	// ApplyInvoiceBenefit runs the full pipeline: lookup, eligibility,
	// one-time invoice consumption, policy split, ticket reduction and
	// surplus credit.
	ApplyInvoiceBenefit(ctx context.Context, req ApplyRequest) (ApplyResult, error)
	ListByTicket(ctx context.Context, userID, ticketID snowflake.ID) ([]DiscountRecord, error)
}
