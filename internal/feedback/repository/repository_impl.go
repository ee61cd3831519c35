package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/printtrack/internal/feedback/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, fb *domain.Feedback) error {
	return db.WithContext(ctx).Create(fb).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req domain.ListRequest) ([]domain.Feedback, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Feedback{})

	if status := strings.TrimSpace(req.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	stmt = stmt.Order(orderClause(req.SortBy, req.OrderBy))
	stmt = req.Pagination.Apply(stmt)

	var items []domain.Feedback
	if err := stmt.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	result := db.WithContext(ctx).Delete(&domain.Feedback{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var sortableColumns = map[string]bool{
	"created_at": true,
	"rating":     true,
	"name":       true,
}

func orderClause(sortBy, orderBy string) string {
	column := strings.TrimSpace(sortBy)
	if !sortableColumns[column] {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(orderBy), "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}
