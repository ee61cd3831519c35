// Package pagination implements page-number pagination for list endpoints.
package pagination

import (
	"errors"

	"gorm.io/gorm"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 100
	MaxPageSize     = 500
)

var ErrInvalidPage = errors.New("invalid_page")

// Pagination binds page/size query parameters. Zero values mean "use default";
// negative values are rejected.
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"size"`
}

// PageInfo describes the full result set of a paginated list.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	PageCount  int   `json:"pageCount"`
}

// Normalize applies defaults and bounds. Page and size must coerce to
// positive integers.
func (p Pagination) Normalize() (Pagination, error) {
	if p.Page < 0 || p.PageSize < 0 {
		return Pagination{}, ErrInvalidPage
	}
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p, nil
}

// Offset returns the row offset of the requested page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Apply adds limit/offset to a gorm statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.Offset(p.Offset()).Limit(p.PageSize)
}

// Info computes the page envelope for a total row count.
func (p Pagination) Info(total int64) PageInfo {
	pageCount := int(total) / p.PageSize
	if int(total)%p.PageSize != 0 {
		pageCount++
	}
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		PageCount:  pageCount,
	}
}
