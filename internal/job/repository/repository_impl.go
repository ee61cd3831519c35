package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/printtrack/internal/job/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, job *domain.Job) error {
	return db.WithContext(ctx).Create(job).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Job, error) {
	var job domain.Job
	err := db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req domain.ListRequest) ([]domain.Job, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Job{})

	if status := strings.TrimSpace(req.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	stmt = stmt.Order(orderClause(req.SortBy, req.OrderBy))
	stmt = req.Pagination.Apply(stmt)

	var items []domain.Job
	if err := stmt.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, job *domain.Job) error {
	return db.WithContext(ctx).Model(&domain.Job{ID: job.ID}).Select("*").Omit("id", "created_at").Updates(job).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	result := db.WithContext(ctx).Delete(&domain.Job{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var sortableColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"project_name":  true,
	"part_name":     true,
	"total_savings": true,
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
