package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateTicketRequest struct {
	UserID  snowflake.ID
	Hours   int
	Plate   string
	EntryAt time.Time
}

type GetTicketRequest struct {
	UserID   snowflake.ID
	TicketID snowflake.ID
}

type ListTicketsRequest struct {
	UserID snowflake.ID
	Status string
	Limit  int
	Offset int
}

type Service interface {
	Create(ctx context.Context, req CreateTicketRequest) (*Ticket, error)
	GetByID(ctx context.Context, req GetTicketRequest) (*Ticket, error)
	List(ctx context.Context, req ListTicketsRequest) ([]Ticket, error)
}
