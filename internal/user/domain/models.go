package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is the account a ticket belongs to. CreditBalance is the cached
// materialization of the credit_movements ledger in centavos; every code path
// that changes one must change the other in the same transaction.
type User struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null" json:"name"`
	Email         string       `gorm:"not null" json:"email"`
	CreditBalance int64        `gorm:"not null;default:0" json:"credit_balance"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

var (
	ErrNotFound = errors.New("user_not_found")
)
