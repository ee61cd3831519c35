package domain

import (
	"context"

	"github.com/smallbiznis/printtrack/pkg/db/pagination"
)

type RecordRequest struct {
	IPAddress string
	UserAgent string
	Action    string
	Success   bool
}

type ListRequest struct {
	pagination.Pagination
}

type ListResponse struct {
	pagination.PageInfo
	Attempts []AuthAttempt `json:"attempts"`
}

type Service interface {
	// Record appends an attempt and prunes rows past the configured cap.
	Record(ctx context.Context, req RecordRequest) error
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
}
