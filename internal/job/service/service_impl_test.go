package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/printtrack/internal/job/domain"
	"github.com/smallbiznis/printtrack/internal/job/repository"
	"github.com/smallbiznis/printtrack/pkg/db/pagination"
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
	require.NoError(t, db.AutoMigrate(&domain.Job{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func validRequest() domain.WriteRequest {
	return domain.WriteRequest{
		Date:         "2026-08-01",
		ProjectName:  "Conveyor guard",
		PartName:     "Bracket v2",
		PartType:     "bracket",
		Material:     "PETG",
		Machine:      "Prusa MK4",
		Status:       "pending",
		Category:     "production",
		PrintMinutes: 90,
		UnitPrice:    12.5,
		OEMCost:      60,
		Quantities: domain.LocationCounts{
			MainWorkshop: 2,
			Warehouse:    3,
		},
	}
}

func TestCreateRecomputesDerivedFields(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// 90 minutes -> 1.5 h; electricity 1.5 * 0.3 * 6 = 2.7
	assert.InDelta(t, 1.5, resp.PrintHours, 1e-9)
	assert.InDelta(t, 2.7, resp.ElectricityCost, 1e-9)
	assert.InDelta(t, 15.2, resp.TotalCost, 1e-9)
	assert.InDelta(t, 44.8, resp.SavingsPerUnit, 1e-9)
	assert.Equal(t, 5, resp.TotalQuantity)
	assert.InDelta(t, 224.0, resp.TotalSavings, 1e-9)

	assert.Equal(t, resp.Quantities.Sum(), resp.TotalQuantity)
	assert.InDelta(t, float64(resp.TotalQuantity)*resp.SavingsPerUnit, resp.TotalSavings, 1e-9)
}

func TestCreateThenListRoundTrip(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	list, err := svc.List(context.Background(), domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Jobs, 1)

	got := list.Jobs[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.ProjectName, got.ProjectName)
	assert.Equal(t, created.Quantities, got.Quantities)
	assert.Equal(t, created.TotalQuantity, got.TotalQuantity)
	assert.InDelta(t, created.TotalSavings, got.TotalSavings, 1e-9)
}

func TestListPagination(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 25; i++ {
		req := validRequest()
		req.PartName = fmt.Sprintf("part-%02d", i)
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), domain.ListRequest{
		Pagination: pagination.Pagination{Page: 2, PageSize: 10},
	})
	require.NoError(t, err)

	assert.Len(t, list.Jobs, 10)
	assert.Equal(t, int64(25), list.TotalCount)
	assert.Equal(t, 3, list.PageCount)
}

func TestDeleteIdempotence(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), domain.ErrNotFound)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), "123456789", validRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := validRequest()
	req.ProjectName = " "
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrMissingName)

	req = validRequest()
	req.Status = "done"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	req = validRequest()
	req.Category = "art"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	req = validRequest()
	req.Quantities = domain.LocationCounts{}
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = validRequest()
	req.Quantities.Assembly = -1
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = validRequest()
	req.PrintMinutes = -5
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNegativeCost)

	req = validRequest()
	req.Image = "not-base64!!!"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)
}

func TestSavingsMayBeNegative(t *testing.T) {
	svc := newTestService(t)

	req := validRequest()
	req.OEMCost = 1
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Negative(t, resp.SavingsPerUnit)
	assert.Negative(t, resp.TotalSavings)
}
