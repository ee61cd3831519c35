package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/printtrack/internal/auth/domain"
	feedbackdomain "github.com/smallbiznis/printtrack/internal/feedback/domain"
	jobdomain "github.com/smallbiznis/printtrack/internal/job/domain"
	projectdomain "github.com/smallbiznis/printtrack/internal/project/domain"
	settingsdomain "github.com/smallbiznis/printtrack/internal/settings/domain"
	"github.com/smallbiznis/printtrack/pkg/db/pagination"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware converts errors collected on the context into
// the response envelope. Handlers append via AbortWithError.
func ErrorHandlingMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		if production && status == http.StatusInternalServerError {
			payload = errorPayload{Type: "internal_error", Message: "internal server error"}
		}
		c.AbortWithStatusJSON(status, envelope{
			Success:   false,
			Error:     &payload,
			Timestamp: time.Now().UTC(),
		})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: field, Code: code, Message: message},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if detail, ok := validationDetail(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  []ValidationError{detail},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenExpired):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authdomain.ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many attempts, retry later",
		}
	case errors.Is(err, projectdomain.ErrDuplicateID):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "id already exists",
		}
	case errors.Is(err, authdomain.ErrNotConfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "authentication is not configured",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, jobdomain.ErrNotFound),
		errors.Is(err, feedbackdomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

var validationDetails = []struct {
	target error
	detail ValidationError
}{
	{pagination.ErrInvalidPage, ValidationError{Field: "page", Code: "invalid_page", Message: "page and size must be positive"}},

	{jobdomain.ErrInvalidID, ValidationError{Field: "id", Code: "invalid_id", Message: "invalid job id"}},
	{jobdomain.ErrInvalidStatus, ValidationError{Field: "status", Code: "invalid_status", Message: "unknown job status"}},
	{jobdomain.ErrInvalidCategory, ValidationError{Field: "category", Code: "invalid_category", Message: "unknown job category"}},
	{jobdomain.ErrInvalidQuantity, ValidationError{Field: "quantities", Code: "invalid_quantity", Message: "quantities must be non-negative and sum to at least 1"}},
	{jobdomain.ErrNegativeCost, ValidationError{Field: "costs", Code: "negative_cost", Message: "cost inputs must be non-negative"}},
	{jobdomain.ErrMissingName, ValidationError{Field: "projectName", Code: "missing_name", Message: "project name is required"}},
	{jobdomain.ErrTextTooLong, ValidationError{Field: "text", Code: "text_too_long", Message: "text field exceeds limit"}},
	{jobdomain.ErrImageTooLarge, ValidationError{Field: "image", Code: "image_too_large", Message: "image exceeds limit"}},

	{feedbackdomain.ErrInvalidID, ValidationError{Field: "id", Code: "invalid_id", Message: "invalid feedback id"}},
	{feedbackdomain.ErrInvalidRating, ValidationError{Field: "rating", Code: "invalid_rating", Message: "rating must be between 1 and 5"}},
	{feedbackdomain.ErrInvalidEmail, ValidationError{Field: "email", Code: "invalid_email", Message: "invalid email address"}},
	{feedbackdomain.ErrInvalidCategory, ValidationError{Field: "category", Code: "invalid_category", Message: "unknown feedback category"}},
	{feedbackdomain.ErrMissingName, ValidationError{Field: "name", Code: "missing_name", Message: "name is required"}},
	{feedbackdomain.ErrMissingMessage, ValidationError{Field: "message", Code: "missing_message", Message: "message is required"}},
	{feedbackdomain.ErrTextTooLong, ValidationError{Field: "text", Code: "text_too_long", Message: "text field exceeds limit"}},
	{feedbackdomain.ErrImageTooLarge, ValidationError{Field: "image", Code: "image_too_large", Message: "image exceeds limit"}},

	{projectdomain.ErrInvalidID, ValidationError{Field: "id", Code: "invalid_id", Message: "invalid project id"}},
	{projectdomain.ErrInvalidPriority, ValidationError{Field: "priority", Code: "invalid_priority", Message: "unknown priority"}},
	{projectdomain.ErrInvalidStatus, ValidationError{Field: "status", Code: "invalid_status", Message: "unknown project status"}},
	{projectdomain.ErrMissingTitle, ValidationError{Field: "title", Code: "missing_title", Message: "title is required"}},
	{projectdomain.ErrTextTooLong, ValidationError{Field: "text", Code: "text_too_long", Message: "text field exceeds limit"}},
	{projectdomain.ErrImageTooLarge, ValidationError{Field: "image", Code: "image_too_large", Message: "image exceeds limit"}},

	{settingsdomain.ErrEmptyKey, ValidationError{Field: "settings", Code: "empty_key", Message: "setting keys must be non-empty"}},
	{settingsdomain.ErrKeyTooLong, ValidationError{Field: "settings", Code: "key_too_long", Message: "setting key exceeds limit"}},
	{settingsdomain.ErrValueTooBig, ValidationError{Field: "settings", Code: "value_too_big", Message: "setting value exceeds limit"}},
}

func validationDetail(err error) (ValidationError, bool) {
	for _, entry := range validationDetails {
		if errors.Is(err, entry.target) {
			return entry.detail, true
		}
	}
	return ValidationError{}, false
}
