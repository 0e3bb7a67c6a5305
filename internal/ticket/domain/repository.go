package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter narrows ticket listings.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ticket *Ticket) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Ticket, error)
	// FindByIDForUpdate acquires the ticket row lock. Every money-moving
	// operation on a ticket goes through this; the lock serializes them.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Ticket, error)
	// FindActiveByUserForUpdate locks the caller's single OPEN ticket.
	FindActiveByUserForUpdate(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Ticket, error)
	FindActiveByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Ticket, error)
	Update(ctx context.Context, db *gorm.DB, ticket *Ticket) error
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter ListFilter) ([]Ticket, error)
}
