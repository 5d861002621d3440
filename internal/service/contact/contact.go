package contact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alijeyrad/simorq_mailer/pkg/email"
	"github.com/Alijeyrad/simorq_mailer/pkg/reqctx"
)

const (
	ConfirmationSubject = "Thank you for your message"
	ConfirmationHTML    = "<p>Thank you for your email. We will get in touch with you shortly.</p>"

	businessSubjectPrefix = "New message from "
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type SubmitRequest struct {
	To          string
	ContactName string
	Body        string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Submit(ctx context.Context, req *SubmitRequest) error
}

// Sender delivers one message built for the account mailbox it resolved
// for that send. *email.Client satisfies it.
type Sender interface {
	SendComposed(ctx context.Context, compose email.Compose) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type contactService struct {
	sender Sender
	log    *slog.Logger
}

func New(sender Sender, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &contactService{sender: sender, log: log}
}

// Submit sends the confirmation first and the business copy second. A failed
// confirmation aborts the submission before the business copy is built.
func (s *contactService) Submit(ctx context.Context, req *SubmitRequest) error {
	if req == nil {
		return email.ErrInvalidArgument("submission is required")
	}

	if err := s.send(ctx, req, ConfirmationSubject, ConfirmationMessage); err != nil {
		return err
	}
	return s.send(ctx, req, BusinessSubject(req), BusinessMessage)
}

func (s *contactService) send(
	ctx context.Context,
	req *SubmitRequest,
	subject string,
	build func(mailbox string, req *SubmitRequest) email.Message,
) error {
	err := s.sender.SendComposed(ctx, func(mailbox string) email.Message {
		return build(mailbox, req)
	})
	if err == nil {
		return nil
	}

	attrs := append([]any{
		"recipient", req.To,
		"subject", subject,
		"kind", email.KindOf(err).String(),
		"error", err,
	}, reqctx.LogAttrs(ctx)...)
	s.log.ErrorContext(ctx, "error sending email", attrs...)
	return err
}

// ConfirmationMessage is the fixed acknowledgement sent to the submitter.
func ConfirmationMessage(mailbox string, req *SubmitRequest) email.Message {
	return email.Message{
		From:     mailbox,
		To:       req.To,
		Subject:  ConfirmationSubject,
		HTMLBody: ConfirmationHTML,
	}
}

func BusinessSubject(req *SubmitRequest) string {
	return businessSubjectPrefix + req.ContactName
}

// BusinessMessage forwards the submission to the operator mailbox. The
// contact name and body are embedded as given.
func BusinessMessage(mailbox string, req *SubmitRequest) email.Message {
	body := fmt.Sprintf(`
<h2>New contact form submission</h2>
<p><strong>From:</strong> %s (%s)</p>
<p><strong>Message:</strong></p>
<p>%s</p>`, req.ContactName, req.To, req.Body)

	return email.Message{
		From:     mailbox,
		To:       mailbox,
		Subject:  BusinessSubject(req),
		HTMLBody: body,
	}
}
