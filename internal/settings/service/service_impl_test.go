package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/printtrack/internal/settings/domain"
	"github.com/smallbiznis/printtrack/internal/settings/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Setting{}))

	return New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestUpsertMergesWithoutDeleting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, map[string]json.RawMessage{
		"businessName": json.RawMessage(`"Acme Prints"`),
		"currency":     json.RawMessage(`"EUR"`),
	})
	require.NoError(t, err)

	bag, err := svc.Upsert(ctx, map[string]json.RawMessage{
		"currency": json.RawMessage(`"USD"`),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `"Acme Prints"`, string(bag["businessName"]))
	assert.JSONEq(t, `"USD"`, string(bag["currency"]))
}

func TestGetEmptyBag(t *testing.T) {
	svc := newTestService(t)

	bag, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bag)
}

func TestUpsertRejectsEmptyKey(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upsert(context.Background(), map[string]json.RawMessage{
		"": json.RawMessage(`1`),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyKey)
}

func TestNextProjectIDSequence(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.NextProjectID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P-0001", first)

	second, err := svc.NextProjectID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P-0002", second)

	bag, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `2`, string(bag[domain.ProjectCounterKey]))
}
