package repository

import (
	"context"

	"github.com/smallbiznis/printtrack/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, attempt *domain.AuthAttempt) error {
	return db.WithContext(ctx).Create(attempt).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req domain.ListRequest) ([]domain.AuthAttempt, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.AuthAttempt{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	stmt = stmt.Order("created_at DESC, id DESC")
	stmt = req.Pagination.Apply(stmt)

	var items []domain.AuthAttempt
	if err := stmt.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) PruneOldest(ctx context.Context, db *gorm.DB, keep int) error {
	if keep <= 0 {
		return nil
	}
	sub := db.Model(&domain.AuthAttempt{}).
		Select("id").
		Order("created_at DESC, id DESC").
		Limit(keep)
	return db.WithContext(ctx).
		Where("id NOT IN (?)", sub).
		Delete(&domain.AuthAttempt{}).Error
}
