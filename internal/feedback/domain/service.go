package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/printtrack/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PartName string `json:"partName"`
	Location string `json:"location"`
	Category string `json:"category"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Rating   int    `json:"rating"`
	Image    string `json:"image"`
}

type ListRequest struct {
	pagination.Pagination
	Status  string `form:"status"`
	SortBy  string `form:"sortBy"`
	OrderBy string `form:"orderBy"`
}

type ListResponse struct {
	pagination.PageInfo
	Feedback []Response `json:"feedback"`
}

type Response struct {
	ID string `json:"id"`
	Feedback
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRating   = errors.New("invalid_rating")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrMissingName     = errors.New("invalid_name")
	ErrMissingMessage  = errors.New("invalid_message")
	ErrTextTooLong     = errors.New("invalid_text_length")
	ErrImageTooLarge   = errors.New("invalid_image_size")
)

const (
	MaxTextLen      = 500
	MaxMessageLen   = 2000
	MaxImageDecoded = 1 << 20
)
