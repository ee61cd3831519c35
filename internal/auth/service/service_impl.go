package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auditdomain "github.com/smallbiznis/printtrack/internal/audit/domain"
	"github.com/smallbiznis/printtrack/internal/auth/domain"
	"github.com/smallbiznis/printtrack/internal/auth/password"
	"github.com/smallbiznis/printtrack/internal/config"
	obsmetrics "github.com/smallbiznis/printtrack/internal/observability/metrics"
	"github.com/smallbiznis/printtrack/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const adminRole = "admin"

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Audit   auditdomain.Service
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	cfg     config.Config
	log     *zap.Logger
	audit   auditdomain.Service
	metrics *obsmetrics.Metrics
	limiter *ratelimit.TokenBucket

	now func() time.Time
}

func New(p Params) domain.Service {
	return &Service{
		cfg:     p.Cfg,
		log:     p.Log.Named("auth.service"),
		audit:   p.Audit,
		metrics: p.Metrics,
		limiter: ratelimit.NewTokenBucket(p.Cfg.LoginRatePerMin/60, p.Cfg.LoginBurst),
		now:     time.Now,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if s.cfg.AdminPasswordHash == "" || s.cfg.AuthJWTSecret == "" {
		return nil, domain.ErrNotConfigured
	}

	if res := s.limiter.Allow(req.IPAddress); !res.Allowed {
		s.metrics.RecordRateLimitDenied(ctx, "login")
		s.log.Warn("login rate limited", zap.String("ip", req.IPAddress))
		return nil, domain.ErrRateLimited
	}

	ok := password.Verify(req.Password, s.cfg.AdminPasswordHash)
	s.recordAttempt(ctx, req, ok)

	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	expires := now.Add(s.cfg.AuthTokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminRole,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte(s.cfg.AuthJWTSecret))
	if err != nil {
		return nil, err
	}

	s.log.Info("admin login", zap.String("ip", req.IPAddress))
	return &domain.LoginResponse{
		Token:     signed,
		ExpiresAt: expires,
	}, nil
}

func (s *Service) Verify(ctx context.Context, tokenString string) (*domain.Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, domain.ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.cfg.AuthJWTSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	default:
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject != adminRole {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.Claims{Role: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (s *Service) recordAttempt(ctx context.Context, req domain.LoginRequest, success bool) {
	s.metrics.RecordAuthAttempt(ctx, "login", success)
	err := s.audit.Record(ctx, auditdomain.RecordRequest{
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Action:    "login",
		Success:   success,
	})
	if err != nil {
		s.log.Warn("auth attempt record failed", zap.Error(err))
	}
}
