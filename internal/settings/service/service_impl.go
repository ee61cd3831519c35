package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	obsmetrics "github.com/smallbiznis/printtrack/internal/observability/metrics"
	"github.com/smallbiznis/printtrack/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("settings.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context) (map[string]json.RawMessage, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	bag := make(map[string]json.RawMessage, len(items))
	for _, item := range items {
		bag[item.Key] = json.RawMessage(item.Value)
	}
	return bag, nil
}

func (s *Service) Upsert(ctx context.Context, values map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	for key, value := range values {
		if key == "" {
			return nil, domain.ErrEmptyKey
		}
		if len(key) > domain.MaxKeyLen {
			return nil, domain.ErrKeyTooLong
		}
		if len(value) > domain.MaxValueLen {
			return nil, domain.ErrValueTooBig
		}
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			setting := &domain.Setting{
				Key:       key,
				Value:     datatypes.JSON(value),
				UpdatedAt: now,
			}
			if err := s.repo.Upsert(ctx, tx, setting); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordWrite(ctx, "settings", "upsert")
	s.log.Info("settings updated", zap.Int("keys", len(values)))

	return s.Get(ctx)
}

func (s *Service) NextProjectID(ctx context.Context) (string, error) {
	var next int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var setting domain.Setting
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&setting, "key = ?", domain.ProjectCounterKey).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			next = 1
		case err != nil:
			return err
		default:
			current, parseErr := strconv.ParseInt(string(setting.Value), 10, 64)
			if parseErr != nil {
				current = 0
			}
			next = current + 1
		}

		counter := &domain.Setting{
			Key:       domain.ProjectCounterKey,
			Value:     datatypes.JSON(strconv.FormatInt(next, 10)),
			UpdatedAt: time.Now().UTC(),
		}
		return s.repo.Upsert(ctx, tx, counter)
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("P-%04d", next), nil
}
