package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/printtrack/internal/job/domain"
	obsmetrics "github.com/smallbiznis/printtrack/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Electricity cost model: fixed power draw (kW) times a fixed tariff per kWh.
const (
	powerDrawKW  = 0.3
	tariffPerKWh = 6.0
)

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
		log:     p.Log.Named("job.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.WriteRequest) (*domain.Response, error) {
	job, err := buildJob(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job.ID = s.genID.Generate().Int64()
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := s.repo.Create(ctx, s.db, job); err != nil {
		return nil, err
	}

	s.metrics.RecordWrite(ctx, "jobs", "create")
	s.log.Info("job created",
		zap.String("job_id", snowflake.ID(job.ID).String()),
		zap.String("project", job.ProjectName),
		zap.Int("total_quantity", job.TotalQuantity),
	)

	resp := toResponse(job)
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
		Jobs:     make([]domain.Response, 0, len(items)),
	}
	for i := range items {
		resp.Jobs = append(resp.Jobs, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	jobID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	job, err := s.repo.FindByID(ctx, s.db, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(job)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.WriteRequest) (*domain.Response, error) {
	jobID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, jobID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	job, err := buildJob(req)
	if err != nil {
		return nil, err
	}
	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	job.UpdatedAt = domain.NextUpdateTime(existing.UpdatedAt, time.Now().UTC())

	if err := s.repo.Update(ctx, s.db, job); err != nil {
		return nil, err
	}

	s.metrics.RecordWrite(ctx, "jobs", "update")

	resp := toResponse(job)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	jobID, err := parseID(id)
	if err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, s.db, jobID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}

	s.metrics.RecordWrite(ctx, "jobs", "delete")
	return nil
}

// buildJob validates the request and recomputes every derived field from
// primitive inputs. Client-supplied totals are never trusted.
func buildJob(req domain.WriteRequest) (*domain.Job, error) {
	projectName := strings.TrimSpace(req.ProjectName)
	if projectName == "" {
		return nil, domain.ErrMissingName
	}

	for _, text := range []string{req.Date, projectName, req.PartName, req.PartType, req.PartSize, req.Material, req.Machine, req.DocumentLink} {
		if len(text) > domain.MaxTextLen {
			return nil, domain.ErrTextTooLong
		}
	}
	if len(req.Application) > domain.MaxLongTextLen {
		return nil, domain.ErrTextTooLong
	}

	status := domain.Status(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	category := domain.Category(strings.TrimSpace(req.Category))
	if category == "" {
		category = domain.CategoryOther
	}
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	if req.PrintMinutes < 0 || req.UnitPrice < 0 || req.OEMCost < 0 {
		return nil, domain.ErrNegativeCost
	}

	if req.Quantities.Negative() {
		return nil, domain.ErrInvalidQuantity
	}
	totalQuantity := req.Quantities.Sum()
	if totalQuantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	image := strings.TrimSpace(req.Image)
	if image != "" {
		decoded, err := base64.StdEncoding.DecodeString(image)
		if err != nil || len(decoded) > domain.MaxImageDecoded {
			return nil, domain.ErrImageTooLarge
		}
	}

	hours := req.PrintMinutes / 60
	electricity := hours * powerDrawKW * tariffPerKWh
	totalCost := req.UnitPrice + electricity
	savingsPerUnit := req.OEMCost - totalCost

	return &domain.Job{
		Date:         strings.TrimSpace(req.Date),
		ProjectName:  projectName,
		PartName:     strings.TrimSpace(req.PartName),
		PartType:     strings.TrimSpace(req.PartType),
		PartSize:     strings.TrimSpace(req.PartSize),
		Application:  strings.TrimSpace(req.Application),
		Material:     strings.TrimSpace(req.Material),
		Machine:      strings.TrimSpace(req.Machine),
		DocumentLink: strings.TrimSpace(req.DocumentLink),
		Status:       status,
		Category:     category,

		PrintMinutes:    req.PrintMinutes,
		PrintHours:      hours,
		UnitPrice:       req.UnitPrice,
		ElectricityCost: electricity,
		TotalCost:       totalCost,
		OEMCost:         req.OEMCost,
		SavingsPerUnit:  savingsPerUnit,

		Quantities:    req.Quantities,
		TotalQuantity: totalQuantity,
		TotalSavings:  float64(totalQuantity) * savingsPerUnit,

		Image: image,
	}, nil
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func toResponse(job *domain.Job) domain.Response {
	return domain.Response{
		ID:  snowflake.ID(job.ID).String(),
		Job: *job,
	}
}
