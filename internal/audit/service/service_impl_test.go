package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/printtrack/internal/audit/domain"
	"github.com/smallbiznis/printtrack/internal/audit/repository"
	"github.com/smallbiznis/printtrack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, cap int) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AuthAttempt{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Cfg:   config.Config{AuthAttemptCap: cap},
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestRecordAndList(t *testing.T) {
	svc := newTestService(t, 100)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, domain.RecordRequest{
		IPAddress: "198.51.100.7",
		UserAgent: "curl/8.5",
		Action:    "login",
		Success:   false,
	}))

	resp, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Attempts, 1)
	assert.Equal(t, "198.51.100.7", resp.Attempts[0].IPAddress)
	assert.False(t, resp.Attempts[0].Success)
}

func TestRecordPrunesPastCap(t *testing.T) {
	svc := newTestService(t, 5)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, svc.Record(ctx, domain.RecordRequest{
			IPAddress: fmt.Sprintf("10.0.0.%d", i),
			Action:    "login",
			Success:   i%2 == 0,
		}))
	}

	resp, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Attempts, 5)
	assert.Equal(t, int64(5), resp.PageInfo.TotalCount)

	// Newest rows survive the prune.
	assert.Equal(t, "10.0.0.11", resp.Attempts[0].IPAddress)
}
