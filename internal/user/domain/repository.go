package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	// FindByIDForUpdate acquires a row lock on the user. Lock ordering is
	// ticket before user in every code path; never acquire a ticket lock
	// while holding a user lock.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	UpdateBalance(ctx context.Context, db *gorm.DB, id snowflake.ID, balance int64) error
}
