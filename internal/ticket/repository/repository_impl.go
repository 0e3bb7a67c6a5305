package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/rotativo/rotativo/internal/ticket/domain"
	"gorm.io/gorm"
)

const ticketColumns = `id, user_id, type_id, status, original_value, current_value,
	entry_at, exit_at, plate, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tickets (
			id, user_id, type_id, status, original_value, current_value,
			entry_at, exit_at, plate, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID,
		ticket.UserID,
		ticket.TypeID,
		string(ticket.Status),
		ticket.OriginalValue,
		ticket.CurrentValue,
		ticket.EntryAt,
		ticket.ExitAt,
		ticket.Plate,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).Raw(
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`,
		id,
	).Scan(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.ID == 0 {
		return nil, nil
	}
	return &ticket, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).Raw(
		`SELECT `+ticketColumns+` FROM tickets
		 WHERE id = ?
		 FOR UPDATE`,
		id,
	).Scan(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.ID == 0 {
		return nil, nil
	}
	return &ticket, nil
}

func (r *repo) FindActiveByUserForUpdate(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).Raw(
		`SELECT `+ticketColumns+` FROM tickets
		 WHERE user_id = ? AND status = ?
		 ORDER BY created_at DESC
		 LIMIT 1
		 FOR UPDATE`,
		userID,
		string(domain.StatusOpen),
	).Scan(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.ID == 0 {
		return nil, nil
	}
	return &ticket, nil
}

func (r *repo) FindActiveByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).Raw(
		`SELECT `+ticketColumns+` FROM tickets
		 WHERE user_id = ? AND status = ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
		string(domain.StatusOpen),
	).Scan(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.ID == 0 {
		return nil, nil
	}
	return &ticket, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tickets SET status = ?, current_value = ?, updated_at = ? WHERE id = ?`,
		string(ticket.Status),
		ticket.CurrentValue,
		ticket.UpdatedAt,
		ticket.ID,
	).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter domain.ListFilter) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	stmt := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("user_id = ?", userID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(filter.Offset).
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
