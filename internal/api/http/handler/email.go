package handler

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_mailer/internal/service/contact"
)

type EmailHandler struct {
	svc contact.Service
}

func NewEmailHandler(svc contact.Service) *EmailHandler {
	return &EmailHandler{svc: svc}
}

type sendEmailRequest struct {
	To          string `json:"to"`
	ContactName string `json:"contactName"`
	Body        string `json:"body"`
}

// Send handles POST /api/email. Errors from the contact service are
// returned to the app's ErrorHandler as-is.
func (h *EmailHandler) Send(c fiber.Ctx) error {
	var req sendEmailRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	req.To = strings.TrimSpace(req.To)
	if req.To == "" || strings.TrimSpace(req.ContactName) == "" || strings.TrimSpace(req.Body) == "" {
		return badRequest(c, "to, contactName, and body are required")
	}
	if addr, err := mail.ParseAddress(req.To); err != nil || addr.Address != req.To {
		return badRequest(c, "to must be a valid email address")
	}

	if err := h.svc.Submit(c.Context(), &contact.SubmitRequest{
		To:          req.To,
		ContactName: req.ContactName,
		Body:        req.Body,
	}); err != nil {
		return err
	}

	return ok(c, fiber.Map{"message": "Email sent successfully"})
}
