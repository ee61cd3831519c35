package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/printtrack/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req WriteRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req WriteRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

// WriteRequest carries the client-settable fields of a job. Derived cost
// fields sent by clients are ignored; the service recomputes them from the
// primitive inputs.
type WriteRequest struct {
	Date         string `json:"date"`
	ProjectName  string `json:"projectName"`
	PartName     string `json:"partName"`
	PartType     string `json:"partType"`
	PartSize     string `json:"partSize"`
	Application  string `json:"application"`
	Material     string `json:"material"`
	Machine      string `json:"machine"`
	DocumentLink string `json:"documentLink"`
	Status       string `json:"status"`
	Category     string `json:"category"`

	PrintMinutes float64 `json:"printMinutes"`
	UnitPrice    float64 `json:"unitPrice"`
	OEMCost      float64 `json:"oemCost"`

	Quantities LocationCounts `json:"quantities"`

	Image string `json:"image"`
}

type ListRequest struct {
	pagination.Pagination
	Status  string `form:"status"`
	SortBy  string `form:"sortBy"`
	OrderBy string `form:"orderBy"`
}

type ListResponse struct {
	pagination.PageInfo
	Jobs []Response `json:"jobs"`
}

// Response mirrors the stored job with a string id.
type Response struct {
	ID string `json:"id"`
	Job
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrNegativeCost    = errors.New("invalid_cost")
	ErrMissingName     = errors.New("invalid_project_name")
	ErrTextTooLong     = errors.New("invalid_text_length")
	ErrImageTooLarge   = errors.New("invalid_image_size")
)

// Bounds for free-text and image payloads (decoded bytes).
const (
	MaxTextLen      = 500
	MaxLongTextLen  = 2000
	MaxImageDecoded = 1 << 20
)

// NextUpdateTime keeps the updated timestamp monotonic non-decreasing.
func NextUpdateTime(prev time.Time, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
