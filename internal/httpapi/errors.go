package httpapi

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return fiber.StatusUnprocessableEntity
	case domain.CodeAuthorization:
		return fiber.StatusForbidden
	case domain.CodeStateConflict, domain.CodeBudgetExceeded, domain.CodeConcurrentUpdate:
		return fiber.StatusConflict
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

var titles = map[domain.ErrorCode]string{
	domain.CodeValidation:       "invalid_request",
	domain.CodeAuthorization:    "forbidden",
	domain.CodeStateConflict:    "state_conflict",
	domain.CodeBudgetExceeded:   "budget_exceeded",
	domain.CodeNotFound:         "not_found",
	domain.CodeConcurrentUpdate: "concurrent_update",
	domain.CodeInternal:         "internal_error",
}

// WriteError writes err as an ErrorResponse. Internal errors are logged and
// their detail withheld from the client.
func WriteError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Code:    "HTTP_" + strconv.Itoa(fe.Code),
			Title:   "request_error",
			Message: fe.Message,
		})
	}

	code := domain.ErrorKind(err)
	msg := err.Error()
	if code == domain.CodeInternal {
		logger.ErrorContext(c.UserContext(), "handler error",
			"method", c.Method(), "path", c.Path(), "error", err.Error())
		msg = "internal error"
	}
	return c.Status(StatusFor(code)).JSON(ErrorResponse{
		Code:    string(code),
		Title:   titles[code],
		Message: msg,
	})
}
