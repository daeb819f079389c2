package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/pkg/annotate"
)

// AppError carries an HTTP status through the service layer.
type AppError struct {
	Status  int
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Message: message}
}

func BadRequest(message string, details any) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message, Details: details}
}

func Forbidden(message string) *AppError {
	return &AppError{Status: fiber.StatusForbidden, Message: message}
}

// ErrorHandlerMiddleware renders errors returned by handlers in the common
// response envelope. Unknown errors become 500 and are logged when log is set.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, message, details := classify(err)
		if status >= fiber.StatusInternalServerError && log != nil {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"error":  err.Error(),
				"method": ctx.Method(),
				"path":   ctx.Path(),
			})
		}

		resp := ErrorResponse(status, message)
		resp.Data = details
		return ctx.Status(status).JSON(resp)
	}
}

func classify(err error) (int, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message, appErr.Details
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message, nil
	}

	if errors.Is(err, annotate.ErrPersistenceConflict) {
		return fiber.StatusConflict, "Note was changed by a newer edit", nil
	}

	return fiber.StatusInternalServerError, "Internal server error", nil
}
