package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "billing/internal/errors"
	"billing/internal/logger"
	"billing/internal/middleware"
	"billing/internal/money"
	"billing/internal/uuid"
)

const dateLayout = "2006-01-02"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parseUUIDParam reads a UUID path parameter in canonical form.
func parseUUIDParam(c *gin.Context, param string) (string, error) {
	return parseUUID(c.Param(param), param)
}

func parseUUID(value, field string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+field)
	}
	return id, nil
}

// parseFlexibleTime accepts RFC3339 (with or without fractional seconds) or a
// bare YYYY-MM-DD date, always returning UTC.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use RFC3339 or YYYY-MM-DD", s)
}

// parseRangeEnd parses an inclusive upper bound. A bare date covers the whole
// day up to its last microsecond.
func parseRangeEnd(s string) (time.Time, error) {
	t, err := parseFlexibleTime(s)
	if err != nil {
		return time.Time{}, err
	}
	if _, dateOnly := time.Parse(dateLayout, s); dateOnly == nil {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return t, nil
}

// parseOptionalCurrency returns nil for an empty query value.
func parseOptionalCurrency(s string) (*money.Currency, error) {
	if s == "" {
		return nil, nil
	}
	cur, err := money.ParseCurrency(s)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCurrency, err.Error())
	}
	return &cur, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

func invalidInput(err error) *apperrors.AppError {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// bindingError maps a failed currency tag to INVALID_CURRENCY and anything
// else to INVALID_INPUT.
func bindingError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "currency" {
				return apperrors.WithMessage(apperrors.ErrInvalidCurrency,
					fmt.Sprintf("Currency %q must be one of %s", fe.Value(), strings.Join(money.SupportedCodes(), ", ")))
			}
		}
	}
	return invalidInput(err)
}
