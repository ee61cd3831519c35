package service

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/printtrack/internal/feedback/domain"
	obsmetrics "github.com/smallbiznis/printtrack/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("feedback.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrMissingName
	}
	if len(name) > domain.MaxTextLen {
		return nil, domain.ErrTextTooLong
	}

	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, domain.ErrMissingMessage
	}
	if len(message) > domain.MaxMessageLen {
		return nil, domain.ErrTextTooLong
	}
	for _, text := range []string{req.PartName, req.Location, req.Subject} {
		if len(text) > domain.MaxTextLen {
			return nil, domain.ErrTextTooLong
		}
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	category := domain.Category(strings.TrimSpace(req.Category))
	if category == "" {
		category = domain.CategoryGeneral
	}
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	image := strings.TrimSpace(req.Image)
	if image != "" {
		decoded, err := base64.StdEncoding.DecodeString(image)
		if err != nil || len(decoded) > domain.MaxImageDecoded {
			return nil, domain.ErrImageTooLarge
		}
	}

	fb := &domain.Feedback{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Email:     email,
		PartName:  strings.TrimSpace(req.PartName),
		Location:  strings.TrimSpace(req.Location),
		Category:  category,
		Subject:   strings.TrimSpace(req.Subject),
		Message:   message,
		Rating:    req.Rating,
		Image:     image,
		Status:    domain.StatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, s.db, fb); err != nil {
		return nil, err
	}

	s.metrics.RecordWrite(ctx, "feedback", "create")
	s.log.Info("feedback submitted",
		zap.String("feedback_id", snowflake.ID(fb.ID).String()),
		zap.Int("rating", fb.Rating),
	)

	resp := toResponse(fb)
	return &resp, nil
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

	resp := &domain.ListResponse{
		PageInfo: page.Info(total),
		Feedback: make([]domain.Response, 0, len(items)),
	}
	for i := range items {
		resp.Feedback = append(resp.Feedback, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.ErrInvalidID
	}

	removed, err := s.repo.Delete(ctx, s.db, parsed.Int64())
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}

	s.metrics.RecordWrite(ctx, "feedback", "delete")
	return nil
}

func toResponse(fb *domain.Feedback) domain.Response {
	return domain.Response{
		ID:       snowflake.ID(fb.ID).String(),
		Feedback: *fb,
	}
}
