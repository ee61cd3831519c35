package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/smallbiznis/printtrack/internal/audit/domain"
	auditrepo "github.com/smallbiznis/printtrack/internal/audit/repository"
	auditsvc "github.com/smallbiznis/printtrack/internal/audit/service"
	"github.com/smallbiznis/printtrack/internal/auth/domain"
	"github.com/smallbiznis/printtrack/internal/auth/password"
	"github.com/smallbiznis/printtrack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, cfg config.Config) (*Service, auditdomain.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditdomain.AuthAttempt{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	audit := auditsvc.New(auditsvc.Params{
		Cfg:   cfg,
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  auditrepo.Provide(),
	})

	svc := New(Params{
		Cfg:   cfg,
		Log:   zap.NewNop(),
		Audit: audit,
	})
	return svc.(*Service), audit
}

func testConfig(t *testing.T, plaintext string) config.Config {
	t.Helper()

	hash, err := password.Hash(plaintext)
	require.NoError(t, err)

	return config.Config{
		AdminPasswordHash: hash,
		AuthJWTSecret:     "test-secret",
		AuthTokenTTL:      time.Hour,
		LoginRatePerMin:   600,
		LoginBurst:        10,
		AuthAttemptCap:    100,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService(t, testConfig(t, "hunter2-but-long"))
	ctx := context.Background()

	resp, err := svc.Login(ctx, domain.LoginRequest{
		Password:  "hunter2-but-long",
		IPAddress: "203.0.113.1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.Verify(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, audit := newTestService(t, testConfig(t, "correct-password"))
	ctx := context.Background()

	_, err := svc.Login(ctx, domain.LoginRequest{
		Password:  "wrong-password",
		IPAddress: "203.0.113.2",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	attempts, err := audit.List(ctx, auditdomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, attempts.Attempts, 1)
	assert.False(t, attempts.Attempts[0].Success)
}

func TestLoginUnconfigured(t *testing.T) {
	svc, _ := newTestService(t, config.Config{AuthAttemptCap: 10})

	_, err := svc.Login(context.Background(), domain.LoginRequest{Password: "anything"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig(t, "secret-password")
	cfg.LoginRatePerMin = 0.001
	cfg.LoginBurst = 2
	svc, _ := newTestService(t, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, domain.LoginRequest{Password: "nope", IPAddress: "198.51.100.1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, domain.LoginRequest{Password: "nope", IPAddress: "198.51.100.1"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	// A different address has its own bucket.
	_, err = svc.Login(ctx, domain.LoginRequest{Password: "secret-password", IPAddress: "198.51.100.2"})
	assert.NoError(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, _ := newTestService(t, testConfig(t, "secret-password"))
	ctx := context.Background()

	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	resp, err := svc.Login(ctx, domain.LoginRequest{Password: "secret-password", IPAddress: "203.0.113.3"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t, testConfig(t, "secret-password"))

	_, err := svc.Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
