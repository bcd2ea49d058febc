package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// the shared response envelope. Unknown errors become a 500 without
// leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse("record not found"))
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
