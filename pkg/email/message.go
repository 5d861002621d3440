package email

import (
	"strings"

	"github.com/jaytaylor/html2text"
	"gopkg.in/gomail.v2"
)

// envelope is the MAIL FROM / RCPT TO pair, trimmed like the headers.
type envelope struct {
	from string
	to   []string
}

// buildMessage trims the addresses for both headers and envelope. The
// subject is sent as given.
func buildMessage(m Message) (*gomail.Message, envelope, error) {
	from := strings.TrimSpace(m.From)
	if from == "" {
		return nil, envelope{}, ErrInvalidArgument("from is required")
	}
	to := strings.TrimSpace(m.To)
	if to == "" {
		return nil, envelope{}, ErrInvalidArgument("to is required")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return nil, envelope{}, ErrInvalidArgument("subject is required")
	}
	if strings.TrimSpace(m.HTMLBody) == "" {
		return nil, envelope{}, ErrInvalidArgument("html body is required")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", m.Subject)

	text := m.TextBody
	if strings.TrimSpace(text) == "" {
		text = plainText(m.HTMLBody)
	}

	// text/plain first so clients that honour multipart/alternative
	// order pick the HTML part.
	if text != "" {
		msg.SetBody("text/plain", text)
		msg.AddAlternative("text/html", m.HTMLBody)
	} else {
		msg.SetBody("text/html", m.HTMLBody)
	}

	return msg, envelope{from: from, to: []string{to}}, nil
}

// plainText renders an HTML body as text. Conversion failures drop the
// alternative rather than the message.
func plainText(html string) string {
	text, err := html2text.FromString(html)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
