package server

import (
	"errors"

	"document-manager/core/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the fiber.Config ErrorHandler. Domain failures keep their
// public message; anything else is reported as "Internal Server Error".
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	message := apperror.PublicMessage(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		message = fe.Message
	}

	return c.Status(status).JSON(ErrorBody{StatusCode: status, Message: message})
}
