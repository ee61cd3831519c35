package service

import (
	"context"

	"github.com/smallbiznis/printtrack/internal/analytics/domain"
	feedbackdomain "github.com/smallbiznis/printtrack/internal/feedback/domain"
	jobdomain "github.com/smallbiznis/printtrack/internal/job/domain"
	projectdomain "github.com/smallbiznis/printtrack/internal/project/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("analytics.service"),
	}
}

func (s *Service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var dash domain.Dashboard

	jobs := s.db.WithContext(ctx).Model(&jobdomain.Job{})
	if err := jobs.Count(&dash.TotalJobs).Error; err != nil {
		return nil, err
	}

	type jobTotals struct {
		Savings float64
		Hours   float64
	}
	var jt jobTotals
	err := s.db.WithContext(ctx).Model(&jobdomain.Job{}).
		Select("COALESCE(SUM(total_savings), 0) AS savings, COALESCE(SUM(print_hours), 0) AS hours").
		Scan(&jt).Error
	if err != nil {
		return nil, err
	}
	dash.TotalSavings = jt.Savings
	dash.TotalPrintHrs = jt.Hours

	if err := s.db.WithContext(ctx).Model(&feedbackdomain.Feedback{}).Count(&dash.TotalFeedback).Error; err != nil {
		return nil, err
	}

	var avg struct{ Rating float64 }
	err = s.db.WithContext(ctx).Model(&feedbackdomain.Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS rating").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	dash.AverageRating = avg.Rating

	if err := s.db.WithContext(ctx).Model(&projectdomain.Project{}).Count(&dash.TotalProjects).Error; err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&projectdomain.Project{}).
		Where("status IN ?", []string{string(projectdomain.StatusPending), string(projectdomain.StatusInProgress)}).
		Count(&dash.ActiveProjects).Error
	if err != nil {
		return nil, err
	}

	return &dash, nil
}
