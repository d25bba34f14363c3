package helper

import "github.com/gofiber/fiber/v2"

// ErrorHandler is the fiber.Config.ErrorHandler. Errors that escape a handler
// (unknown routes, body limit, panics turned into errors) get the same envelope
// as handler-rendered ones.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return JsonFromError(c, err)
}
