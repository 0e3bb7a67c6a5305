package repository

import (
	"context"
	"database/sql"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, mv *domain.CreditMovement) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO credit_movements (
			id, user_id, kind, amount, direction,
			reference_ticket_id, reference_invoice_key, description, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mv.ID,
		mv.UserID,
		string(mv.Kind),
		mv.Amount,
		string(mv.Direction),
		mv.ReferenceTicket,
		mv.ReferenceInvoice,
		mv.Description,
		mv.CreatedAt,
	).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.CreditMovement, error) {
	var movements []domain.CreditMovement
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, kind, amount, direction,
			reference_ticket_id, reference_invoice_key, description, created_at
		 FROM credit_movements
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	).Scan(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repo) SumByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error) {
	var sum sql.NullInt64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE WHEN direction = 'OUT' THEN -amount ELSE amount END), 0)
		 FROM credit_movements
		 WHERE user_id = ?`,
		userID,
	).Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum.Int64, nil
}
