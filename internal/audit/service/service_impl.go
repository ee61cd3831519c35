package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/printtrack/internal/audit/domain"
	"github.com/smallbiznis/printtrack/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		cfg:   p.Cfg,
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) error {
	attempt := &domain.AuthAttempt{
		ID:        s.genID.Generate().Int64(),
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Action:    req.Action,
		Success:   req.Success,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, s.db, attempt); err != nil {
		return err
	}

	if err := s.repo.PruneOldest(ctx, s.db, s.cfg.AuthAttemptCap); err != nil {
		// The attempt itself is recorded; a failed prune only delays trimming.
		s.log.Warn("auth attempt prune failed", zap.Error(err))
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page, err := req.Pagination.Normalize()
	if err != nil {
		return nil, err
	}
	req.Pagination = page

	items, total, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	return &domain.ListResponse{
		PageInfo: page.Info(total),
		Attempts: items,
	}, nil
}
