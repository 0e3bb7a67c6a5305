package repository

import (
	"context"

	"github.com/rotativo/rotativo/internal/cep/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) IsActive(ctx context.Context, db *gorm.DB, cep string) (bool, error) {
	var entry domain.ScsCep
	err := db.WithContext(ctx).Raw(
		`SELECT cep, active FROM scs_ceps WHERE cep = ?`,
		cep,
	).Scan(&entry).Error
	if err != nil {
		return false, err
	}
	if entry.Cep == "" {
		return false, nil
	}
	return entry.Active, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.ScsCep) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO scs_ceps (cep, active, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (cep) DO NOTHING`,
		entry.Cep,
		entry.Active,
		entry.CreatedAt,
	).Error
}
