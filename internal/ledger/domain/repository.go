package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, mv *CreditMovement) error
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]CreditMovement, error)
	// SumByUser computes the signed sum of all movements for the user. It
	// must always equal the cached users.credit_balance.
	SumByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error)
}
