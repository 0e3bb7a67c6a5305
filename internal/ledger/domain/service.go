package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type AddCreditRequest struct {
	UserID      snowflake.ID
	Amount      int64
	Description string
}

type BalanceResult struct {
	UserID  snowflake.ID `json:"user_id"`
	Balance int64        `json:"balance"`
}

type Statement struct {
	UserID    snowflake.ID     `json:"user_id"`
	Balance   int64            `json:"balance"`
	Movements []CreditMovement `json:"movements"`
}

// Posting is a balance-affecting event to be recorded inside an existing
// transaction.
type Posting struct {
	UserID           snowflake.ID
	Kind             MovementKind
	Amount           int64
	Direction        MovementDirection
	ReferenceTicket  *snowflake.ID
	ReferenceInvoice *string
	Description      string
}

type Service interface {
	AddManualCredit(ctx context.Context, req AddCreditRequest) (BalanceResult, error)
	GetStatement(ctx context.Context, userID snowflake.ID) (Statement, error)
	// Post records a movement and updates the cached balance inside the
	// caller's transaction. It locks the user row; callers holding a ticket
	// lock satisfy the ticket-before-user lock order. Returns the new
	// balance.
	Post(ctx context.Context, tx *gorm.DB, posting Posting) (int64, error)
}
