package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/printtrack/internal/project/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Create(project).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	var project domain.Project
	err := db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req domain.ListRequest) ([]domain.Project, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Project{})

	if status := strings.TrimSpace(req.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if priority := strings.TrimSpace(req.Priority); priority != "" {
		stmt = stmt.Where("priority = ?", priority)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	stmt = stmt.Order(orderClause(req.SortBy, req.OrderBy))
	stmt = req.Pagination.Apply(stmt)

	var items []domain.Project
	if err := stmt.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Model(&domain.Project{ID: project.ID}).Select("*").Omit("id", "created_at").Updates(project).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	result := db.WithContext(ctx).Delete(&domain.Project{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"priority":   true,
	"title":      true,
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
