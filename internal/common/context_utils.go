package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mealmart/internal/models"
)

type contextKey string

const ActorKey contextKey = "actor"

// WithActor attaches the authenticated actor to the request context.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActorFromContext extracts the acting identity from the request context.
func GetActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(models.Actor)
	return actor, ok
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendDomainError maps a domain error to the HTTP response contract.
func SendDomainError(c echo.Context, err error) error {
	kind := KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case KindNotFound:
		status = http.StatusNotFound
	case KindForbidden:
		status = http.StatusForbidden
	case KindInvalidState:
		status = http.StatusConflict
	case KindValidation:
		status = http.StatusBadRequest
	case KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, CreateErrorResponse(string(kind), err.Error(), nil))
}

// SendValidationError sends a validation error response for a single field.
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(string(KindValidation), "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ValidateUUID validates and parses a UUID path or body parameter.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, ValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ValidationError(fmt.Sprintf("%s is not a valid UUID", fieldName))
	}
	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateQuantity rejects zero and negative quantities; it never clamps.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return ValidationError("quantity must be at least 1")
	}
	return nil
}

// ValidatePrice rejects negative prices.
func ValidatePrice(price float64) error {
	if price < 0 {
		return ValidationError("price cannot be negative")
	}
	return nil
}

// ValidateExpiry checks card expiry fields.
func ValidateExpiry(month, year int) error {
	if month < 1 || month > 12 {
		return ValidationError("expiry month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return ValidationError("expiry year is out of range")
	}
	return nil
}

// ValidatePaginationParams normalizes limit/offset with sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
