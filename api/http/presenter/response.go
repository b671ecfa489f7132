package presenter

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/logger"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Type      string `json:"type"`
	Code      string `json:"code"`
	FieldName *string `json:"field_name"`
	Message   string `json:"message"`
}

// IDResponse is returned by signup and other create-only endpoints.
type IDResponse struct {
	ID string `json:"id"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

// Error renders a plain error without a field.
func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Type: typeOf(status), Code: codeOf(status), Message: message})
}

// AppError renders ae with an explicit status, keeping its code and field.
func AppError(c *fiber.Ctx, status int, ae *apperr.Error) error {
	return JSON(c, status, ErrorResponse{
		Type:      typeOf(status),
		Code:      ae.Code,
		FieldName: field(ae.Field),
		Message:   ae.Message,
	})
}

// field is null in the body when the error is not tied to a field.
func field(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

// Status maps an application error kind to its HTTP status.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func typeOf(status int) string {
	switch {
	case status == fiber.StatusBadRequest || status == fiber.StatusConflict:
		return "validation_error"
	case status >= 500:
		return "server_error"
	default:
		return "client_error"
	}
}

// NewErrorHandler renders handler and framework errors in one shape and logs
// internal ones.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = logger.OrNop(log)
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JSON(c, fe.Code, ErrorResponse{Type: typeOf(fe.Code), Code: codeOf(fe.Code), Message: fe.Message})
		}
		ae := apperr.As(err)
		status := Status(ae.Kind)
		if status >= 500 {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return AppError(c, status, ae)
	}
}

func codeOf(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusRequestEntityTooLarge:
		return "too_large"
	case fiber.StatusTooManyRequests:
		return "throttled"
	case fiber.StatusBadRequest:
		return "parse_error"
	default:
		return "error"
	}
}
