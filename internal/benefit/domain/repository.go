package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *DiscountRecord) error
	ListByTicket(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) ([]DiscountRecord, error)
}
