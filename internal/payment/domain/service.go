package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
)

// SettleRequest pays a ticket in full. The amount due is whatever the
// locked ticket says it is; Amount is an optional confirmation and must
// equal the ticket's current value when supplied.
type SettleRequest struct {
	UserID         snowflake.ID
	TicketID       snowflake.ID
	Amount         *int64
	Method         string
	IdempotencyKey string
}

type SettleResult struct {
	Payment  PaymentRecord        `json:"payment"`
	Ticket   *ticketdomain.Ticket `json:"ticket"`
	Replayed bool                 `json:"replayed"`
}

type Service interface {
	Settle(ctx context.Context, req SettleRequest) (SettleResult, error)
	ListByTicket(ctx context.Context, userID, ticketID snowflake.ID) ([]PaymentRecord, error)
}
