package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_mailer/pkg/email"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(data)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ErrorHandler turns errors returned by handlers into JSON responses.
// Delivery failures are logged where they happen, so nothing is logged here.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status, msg := statusFor(err)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func statusFor(err error) (int, string) {
	switch email.KindOf(err) {
	case email.KindInvalidArgument:
		return fiber.StatusBadRequest, err.Error()
	case email.KindConfiguration:
		return fiber.StatusInternalServerError, "email service is not configured"
	case email.KindConnection, email.KindAuthentication, email.KindTransmission:
		return fiber.StatusBadGateway, "failed to send email"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
