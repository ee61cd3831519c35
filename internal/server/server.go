package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/printtrack/internal/analytics"
	analyticsdomain "github.com/smallbiznis/printtrack/internal/analytics/domain"
	"github.com/smallbiznis/printtrack/internal/audit"
	auditdomain "github.com/smallbiznis/printtrack/internal/audit/domain"
	"github.com/smallbiznis/printtrack/internal/auth"
	authdomain "github.com/smallbiznis/printtrack/internal/auth/domain"
	"github.com/smallbiznis/printtrack/internal/config"
	"github.com/smallbiznis/printtrack/internal/feedback"
	feedbackdomain "github.com/smallbiznis/printtrack/internal/feedback/domain"
	"github.com/smallbiznis/printtrack/internal/job"
	jobdomain "github.com/smallbiznis/printtrack/internal/job/domain"
	"github.com/smallbiznis/printtrack/internal/observability"
	obsmiddleware "github.com/smallbiznis/printtrack/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/printtrack/internal/observability/metrics"
	obstracing "github.com/smallbiznis/printtrack/internal/observability/tracing"
	"github.com/smallbiznis/printtrack/internal/project"
	projectdomain "github.com/smallbiznis/printtrack/internal/project/domain"
	"github.com/smallbiznis/printtrack/internal/settings"
	settingsdomain "github.com/smallbiznis/printtrack/internal/settings/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	auth.Module,
	job.Module,
	feedback.Module,
	project.Module,
	settings.Module,
	analytics.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware(cfg.IsProduction()))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	authsvc      authdomain.Service
	auditSvc     auditdomain.Service
	jobSvc       jobdomain.Service
	feedbackSvc  feedbackdomain.Service
	projectSvc   projectdomain.Service
	settingsSvc  settingsdomain.Service
	analyticsSvc analyticsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Authsvc      authdomain.Service
	AuditSvc     auditdomain.Service
	JobSvc       jobdomain.Service
	FeedbackSvc  feedbackdomain.Service
	ProjectSvc   projectdomain.Service
	SettingsSvc  settingsdomain.Service
	AnalyticsSvc analyticsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		authsvc:      p.Authsvc,
		auditSvc:     p.AuditSvc,
		jobSvc:       p.JobSvc,
		feedbackSvc:  p.FeedbackSvc,
		projectSvc:   p.ProjectSvc,
		settingsSvc:  p.SettingsSvc,
		analyticsSvc: p.AnalyticsSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/health", s.Health)

	// -------- Auth --------
	api.POST("/auth/login", s.Login)
	api.POST("/auth/verify", s.VerifyToken)
	api.GET("/auth/attempts", s.AuthRequired(), s.ListAuthAttempts)

	// -------- Jobs --------
	api.GET("/jobs", s.ListJobs)
	api.GET("/jobs/:id", s.GetJobByID)
	api.POST("/jobs", s.AuthRequired(), s.CreateJob)
	api.PUT("/jobs/:id", s.AuthRequired(), s.UpdateJob)
	api.DELETE("/jobs/:id", s.AuthRequired(), s.DeleteJob)

	// -------- Feedback --------
	api.GET("/feedback", s.ListFeedback)
	api.POST("/feedback", s.CreateFeedback)
	api.DELETE("/feedback/:id", s.AuthRequired(), s.DeleteFeedback)

	// -------- Projects --------
	api.GET("/projects", s.ListProjects)
	api.GET("/projects/:id", s.GetProjectByID)
	api.POST("/projects", s.AuthRequired(), s.CreateProject)
	api.PUT("/projects/:id", s.AuthRequired(), s.UpdateProject)
	api.DELETE("/projects/:id", s.AuthRequired(), s.DeleteProject)

	// -------- Settings --------
	api.GET("/settings", s.GetSettings)
	api.PUT("/settings", s.AuthRequired(), s.UpdateSettings)

	// -------- Analytics --------
	api.GET("/analytics/dashboard", s.GetDashboard)
}

var knownRoutes = []string{
	"GET /api/health",
	"POST /api/auth/login",
	"POST /api/auth/verify",
	"GET /api/auth/attempts",
	"GET /api/jobs",
	"GET /api/jobs/:id",
	"POST /api/jobs",
	"PUT /api/jobs/:id",
	"DELETE /api/jobs/:id",
	"GET /api/feedback",
	"POST /api/feedback",
	"DELETE /api/feedback/:id",
	"GET /api/projects",
	"GET /api/projects/:id",
	"POST /api/projects",
	"PUT /api/projects/:id",
	"DELETE /api/projects/:id",
	"GET /api/settings",
	"PUT /api/settings",
	"GET /api/analytics/dashboard",
	"GET /metrics",
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{
			Success: false,
			Error: &errorPayload{
				Type:    "not_found",
				Message: "unknown route " + c.Request.Method + " " + c.Request.URL.Path,
			},
			Data:      gin.H{"routes": knownRoutes},
			Timestamp: time.Now().UTC(),
		})
	})
}

func (s *Server) Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.cfg.AppVersion,
	})
}
