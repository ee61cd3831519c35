package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/printtrack/internal/feedback/domain"
	"github.com/smallbiznis/printtrack/internal/feedback/repository"
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
	require.NoError(t, db.AutoMigrate(&domain.Feedback{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func validRequest() domain.CreateRequest {
	return domain.CreateRequest{
		Name:     "Asha Patel",
		Email:    "asha@example.com",
		PartName: "Bracket v2",
		Location: "main workshop",
		Category: "technical",
		Subject:  "Layer adhesion",
		Message:  "The second batch shows much better layer adhesion.",
		Rating:   4,
	}
}

func TestCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusNew, created.Status)
	assert.Equal(t, 4, created.Rating)

	list, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Feedback, 1)
	assert.Equal(t, created.ID, list.Feedback[0].ID)
	assert.Equal(t, int64(1), list.PageInfo.TotalCount)
}

func TestCreateRejectsRatingOutOfRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 10} {
		req := validRequest()
		req.Rating = rating
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidRating, "rating %d", rating)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("missing name", func(t *testing.T) {
		req := validRequest()
		req.Name = "   "
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrMissingName)
	})

	t.Run("bad email", func(t *testing.T) {
		req := validRequest()
		req.Email = "not-an-email"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("missing message", func(t *testing.T) {
		req := validRequest()
		req.Message = ""
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrMissingMessage)
	})

	t.Run("unknown category", func(t *testing.T) {
		req := validRequest()
		req.Category = "rant"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})

	t.Run("category defaults to general", func(t *testing.T) {
		req := validRequest()
		req.Category = ""
		created, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryGeneral, created.Category)
	})

	t.Run("bad image payload", func(t *testing.T) {
		req := validRequest()
		req.Image = "%%%not-base64%%%"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrImageTooLarge)
	})
}

func TestDeleteRemovesRow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Feedback)
}

func TestDeleteInvalidID(t *testing.T) {
	svc := newTestService(t)

	err := svc.Delete(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
