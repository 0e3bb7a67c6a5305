package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert records the extracted invoice fields, idempotent on key.
	Upsert(ctx context.Context, db *gorm.DB, rec *InvoiceRecord) error
	FindByKey(ctx context.Context, db *gorm.DB, key string) (*InvoiceRecord, error)
	// Consume performs the conditional transition
	// consumed_by_ticket_id IS NULL → ticketID. Returns false when another
	// ticket already holds the invoice (zero rows affected).
	Consume(ctx context.Context, db *gorm.DB, key string, ticketID snowflake.ID, at time.Time) (bool, error)
}
