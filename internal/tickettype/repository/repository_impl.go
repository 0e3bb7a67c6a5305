package repository

import (
	"context"

	"github.com/rotativo/rotativo/internal/tickettype/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tt *domain.TicketType) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO ticket_types (id, hours, price_per_hour, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (hours) DO NOTHING`,
		tt.ID,
		tt.Hours,
		tt.PricePerHour,
		tt.CreatedAt,
	).Error
}

func (r *repo) FindByHours(ctx context.Context, db *gorm.DB, hours int) (*domain.TicketType, error) {
	var tt domain.TicketType
	err := db.WithContext(ctx).Raw(
		`SELECT id, hours, price_per_hour, created_at
		 FROM ticket_types WHERE hours = ?`,
		hours,
	).Scan(&tt).Error
	if err != nil {
		return nil, err
	}
	if tt.ID == 0 {
		return nil, nil
	}
	return &tt, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.TicketType, error) {
	var types []domain.TicketType
	err := db.WithContext(ctx).Raw(
		`SELECT id, hours, price_per_hour, created_at
		 FROM ticket_types ORDER BY hours ASC`,
	).Scan(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}
