package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, fb *Feedback) error
	List(ctx context.Context, db *gorm.DB, req ListRequest) ([]Feedback, int64, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}
