package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/printtrack/pkg/db/pagination"
)

var (
	ErrInvalidID       = errors.New("project: invalid id")
	ErrNotFound        = errors.New("project: not found")
	ErrDuplicateID     = errors.New("project: id already exists")
	ErrInvalidPriority = errors.New("project: invalid priority")
	ErrInvalidStatus   = errors.New("project: invalid status")
	ErrMissingTitle    = errors.New("project: title is required")
	ErrTextTooLong     = errors.New("project: text field exceeds limit")
	ErrImageTooLarge   = errors.New("project: image exceeds limit")
)

const (
	MaxTextLen     = 500
	MaxLongTextLen = 2000

	// MaxImageDecoded bounds the decoded size of the base64 image payload.
	MaxImageDecoded = 1 << 20
)

type WriteRequest struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Location    string     `json:"location"`
	DueDate     *time.Time `json:"dueDate"`
	Assignee    string     `json:"assignee"`
	Tags        []string   `json:"tags"`
	Image       string     `json:"image"`
	Status      string     `json:"status"`
}

type ListRequest struct {
	pagination.Pagination

	Status   string `form:"status"`
	Priority string `form:"priority"`
	SortBy   string `form:"sort_by"`
	OrderBy  string `form:"order_by"`
}

type ListResponse struct {
	pagination.PageInfo
	Projects []Project `json:"projects"`
}

type Service interface {
	Create(ctx context.Context, req WriteRequest) (*Project, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, id string, req WriteRequest) (*Project, error)
	Delete(ctx context.Context, id string) error
}
