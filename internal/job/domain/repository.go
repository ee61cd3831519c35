package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, job *Job) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Job, error)
	List(ctx context.Context, db *gorm.DB, req ListRequest) ([]Job, int64, error)
	Update(ctx context.Context, db *gorm.DB, job *Job) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}
