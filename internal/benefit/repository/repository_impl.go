package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/benefit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *domain.DiscountRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO discount_records (
			id, ticket_id, invoice_key,
			computed_amount, applied_to_ticket, credited_to_balance, applied_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.TicketID,
		rec.InvoiceKey,
		rec.ComputedAmount,
		rec.AppliedToTicket,
		rec.CreditedToBalance,
		rec.AppliedAt,
	).Error
}

func (r *repo) ListByTicket(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) ([]domain.DiscountRecord, error) {
	var records []domain.DiscountRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, ticket_id, invoice_key,
			computed_amount, applied_to_ticket, credited_to_balance, applied_at
		 FROM discount_records
		 WHERE ticket_id = ?
		 ORDER BY applied_at ASC, id ASC`,
		ticketID,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
