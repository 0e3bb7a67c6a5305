package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tt *TicketType) error
	FindByHours(ctx context.Context, db *gorm.DB, hours int) (*TicketType, error)
	List(ctx context.Context, db *gorm.DB) ([]TicketType, error)
}
