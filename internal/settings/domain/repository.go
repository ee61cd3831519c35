package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]Setting, error)
	Upsert(ctx context.Context, db *gorm.DB, setting *Setting) error
}
