package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, attempt *AuthAttempt) error
	List(ctx context.Context, db *gorm.DB, req ListRequest) ([]AuthAttempt, int64, error)

	// PruneOldest deletes everything but the most recent keep rows.
	PruneOldest(ctx context.Context, db *gorm.DB, keep int) error
}
