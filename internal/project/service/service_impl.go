package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	obsmetrics "github.com/smallbiznis/printtrack/internal/observability/metrics"
	"github.com/smallbiznis/printtrack/internal/project/domain"
	settingsdomain "github.com/smallbiznis/printtrack/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Settings settingsdomain.Service
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	settings settingsdomain.Service
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("project.service"),
		repo:     p.Repo,
		settings: p.Settings,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.WriteRequest) (*domain.Project, error) {
	project, err := buildProject(req)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id, err = s.settings.NextProjectID(ctx)
		if err != nil {
			return nil, err
		}
	}
	if len(id) > 32 {
		return nil, domain.ErrInvalidID
	}
	project.ID = id

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateID
	}

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := s.repo.Create(ctx, s.db, project); err != nil {
		return nil, err
	}

	s.metrics.RecordWrite(ctx, "projects", "create")
	s.log.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("priority", string(project.Priority)),
	)
	return project, nil
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
		Projects: items,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	project, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	return project, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.WriteRequest) (*domain.Project, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := buildProject(req)
	if err != nil {
		return nil, err
	}
	project.ID = current.ID
	project.CreatedAt = current.CreatedAt
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, project); err != nil {
		return nil, err
	}

	s.metrics.RecordWrite(ctx, "projects", "update")
	return project, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidID
	}

	removed, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}

	s.metrics.RecordWrite(ctx, "projects", "delete")
	return nil
}

func buildProject(req domain.WriteRequest) (*domain.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrMissingTitle
	}
	if len(title) > domain.MaxTextLen {
		return nil, domain.ErrTextTooLong
	}
	if len(req.Description) > domain.MaxLongTextLen {
		return nil, domain.ErrTextTooLong
	}
	for _, text := range []string{req.Location, req.Assignee} {
		if len(text) > domain.MaxTextLen {
			return nil, domain.ErrTextTooLong
		}
	}

	priority := domain.Priority(strings.TrimSpace(req.Priority))
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}

	status := domain.Status(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	image := strings.TrimSpace(req.Image)
	if image != "" {
		decoded, err := base64.StdEncoding.DecodeString(image)
		if err != nil || len(decoded) > domain.MaxImageDecoded {
			return nil, domain.ErrImageTooLarge
		}
	}

	var tags datatypes.JSON
	if len(req.Tags) > 0 {
		raw, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, err
		}
		tags = datatypes.JSON(raw)
	}

	return &domain.Project{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Priority:    priority,
		Location:    strings.TrimSpace(req.Location),
		DueDate:     req.DueDate,
		Assignee:    strings.TrimSpace(req.Assignee),
		Tags:        tags,
		Image:       image,
		Status:      status,
	}, nil
}
