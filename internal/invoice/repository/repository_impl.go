package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, rec *domain.InvoiceRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoice_records (
			invoice_key, total_value, invoice_at, dest_postal_code, raw_payload, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (invoice_key) DO NOTHING`,
		rec.InvoiceKey,
		rec.TotalValue,
		rec.InvoiceAt,
		rec.DestPostalCode,
		rec.RawPayload,
		rec.CreatedAt,
	).Error
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, key string) (*domain.InvoiceRecord, error) {
	var rec domain.InvoiceRecord
	err := db.WithContext(ctx).Raw(
		`SELECT invoice_key, total_value, invoice_at, dest_postal_code,
			consumed_by_ticket_id, consumed_at, created_at
		 FROM invoice_records WHERE invoice_key = ?`,
		key,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.InvoiceKey == "" {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) Consume(ctx context.Context, db *gorm.DB, key string, ticketID snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE invoice_records
		 SET consumed_by_ticket_id = ?, consumed_at = ?
		 WHERE invoice_key = ? AND consumed_by_ticket_id IS NULL`,
		ticketID,
		at,
		key,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
