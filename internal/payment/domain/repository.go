package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *PaymentRecord) error
	FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*PaymentRecord, error)
	FindByTicket(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) ([]PaymentRecord, error)
}
