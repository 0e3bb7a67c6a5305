package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *domain.PaymentRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_records (
			id, ticket_id, amount_paid, method, status,
			idempotency_key, paid_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.TicketID,
		rec.AmountPaid,
		rec.Method,
		string(rec.Status),
		rec.IdempotencyKey,
		rec.PaidAt,
		rec.CreatedAt,
	).Error
}

func (r *repo) FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*domain.PaymentRecord, error) {
	var rec domain.PaymentRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, ticket_id, amount_paid, method, status,
			idempotency_key, paid_at, created_at
		 FROM payment_records
		 WHERE idempotency_key = ?`,
		key,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) FindByTicket(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) ([]domain.PaymentRecord, error) {
	var records []domain.PaymentRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, ticket_id, amount_paid, method, status,
			idempotency_key, paid_at, created_at
		 FROM payment_records
		 WHERE ticket_id = ?
		 ORDER BY paid_at ASC, id ASC`,
		ticketID,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
