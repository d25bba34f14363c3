// file: internals/helpers/json_response.go
package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"eventhub_backend/internals/helpers/apperr"
)

/* ===============================
   Envelope
=================================*/

type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// ListEnvelope always carries data, an empty page renders as [].
type ListEnvelope struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message,omitempty"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
	Timestamp  string     `json:"timestamp"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

/* ===============================
   Error helpers
=================================*/

// JsonError: error generic, code derived from status
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = utilsStatusMessage(status)
	}
	return c.Status(status).JSON(Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: statusToErrorCode(status), Message: message},
		Timestamp: now(),
	})
}

// JsonValidationError: 400 with per-field messages
func JsonValidationError(c *fiber.Ctx, message string, details map[string]string) error {
	if message == "" {
		message = "validation failed"
	}
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: string(apperr.KindValidation), Message: message, Details: details},
		Timestamp: now(),
	})
}

// JsonFromError renders service errors. Untyped errors become 500 and are logged,
// their text never reaches the client.
func JsonFromError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := ae.Status()
		if status >= 500 {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			return c.Status(status).JSON(Envelope{
				Success:   false,
				Error:     &ErrorBody{Code: string(ae.Kind), Message: "internal error"},
				Timestamp: now(),
			})
		}
		return c.Status(status).JSON(Envelope{
			Success:   false,
			Error:     &ErrorBody{Code: string(ae.Kind), Message: ae.Message, Details: ae.Details},
			Timestamp: now(),
		})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return JsonError(c, fiber.StatusInternalServerError, "internal error")
}

/* ===============================
   Success helpers
=================================*/

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "ok", data)
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusCreated, message, "created", data)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "updated", data)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "deleted", data)
}

// JsonList: list with pagination
func JsonList(c *fiber.Ctx, message string, data any, p Pagination) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(ListEnvelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: p,
		Timestamp:  now(),
	})
}

func jsonSuccess(c *fiber.Ctx, status int, message, fallback string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return c.Status(status).JSON(Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

func utilsStatusMessage(status int) string {
	if fe := fiber.NewError(status); fe.Message != "" {
		return fe.Message
	}
	return "error"
}
