package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Alijeyrad/simorq_mailer/pkg/email"

// Dialer opens a plaintext SMTP session to a relay.
type Dialer interface {
	Dial(host string, port int) (Session, error)
}

// Session is one SMTP connection. It is owned by a single send and closed
// by it.
type Session interface {
	StartTLS(cfg *tls.Config) error
	Auth(username, password string) error
	Send(from string, to []string, msg io.WriterTo) error
	Close() error
}

type Client struct {
	settings SettingsSource
	dialer   Dialer
	log      *slog.Logger

	tracer trace.Tracer
	sends  metric.Int64Counter
}

type Option func(*Client)

// WithDialer replaces the go-smtp dialer.
func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(src SettingsSource, opts ...Option) (*Client, error) {
	if src == nil {
		return nil, errors.New("email: settings source is required")
	}

	c := &Client{
		settings: src,
		dialer:   smtpDialer{},
		log:      slog.Default(),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.sends, _ = otel.Meter(instrumentationName).Int64Counter(
		"email_send_total",
		metric.WithDescription("Outbound email send attempts by result"),
		metric.WithUnit("{email}"),
	)

	return c, nil
}

// Mailbox returns the configured account address, which doubles as the
// sender and the business inbox. It is normalized the same way the AUTH
// identity is.
func (c *Client) Mailbox() string {
	return strings.TrimSpace(c.settings.Settings().Username)
}

// Compose builds a message for the account mailbox of the send that calls
// it, so the sender address and the AUTH identity come from the same
// settings read.
type Compose func(mailbox string) Message

// Send delivers m over a fresh STARTTLS session. The session is closed
// before Send returns, whatever the outcome.
func (c *Client) Send(ctx context.Context, m Message) error {
	return c.SendComposed(ctx, func(string) Message { return m })
}

// SendComposed reads the settings once, builds the message from the
// resolved mailbox and delivers it like Send.
func (c *Client) SendComposed(ctx context.Context, compose Compose) (err error) {
	ctx, span := c.tracer.Start(ctx, "email.send", trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		c.record(ctx, span, err)
		span.End()
	}()

	r, err := c.settings.Settings().resolve()
	if err != nil {
		return err
	}

	m := compose(r.Username)
	span.SetAttributes(attribute.String("email.subject", m.Subject))

	msg, env, err := buildMessage(m)
	if err != nil {
		return err
	}

	sess, err := c.open(r)
	if err != nil {
		return err
	}
	defer c.close(sess, &err)

	if err := sess.Send(env.from, env.to, msg); err != nil {
		return wrap(KindTransmission, "smtp send failed", err)
	}

	c.log.DebugContext(ctx, "email sent", "to", env.to, "relay", r.Host)
	return nil
}

// Verify runs the connect, STARTTLS and AUTH steps without sending.
func (c *Client) Verify(ctx context.Context) (err error) {
	ctx, span := c.tracer.Start(ctx, "email.verify", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	r, err := c.settings.Settings().resolve()
	if err != nil {
		return err
	}

	sess, err := c.open(r)
	if err != nil {
		return err
	}
	defer c.close(sess, &err)

	c.log.DebugContext(ctx, "smtp relay verified", "relay", r.Host, "port", r.Port)
	return nil
}

// open dials the relay and completes STARTTLS and AUTH. On failure after
// the dial the session has already been closed.
func (c *Client) open(r relay) (Session, error) {
	sess, err := c.dialer.Dial(r.Host, r.Port)
	if err != nil {
		return nil, wrap(KindConnection, fmt.Sprintf("connect to %s:%d failed", r.Host, r.Port), err)
	}

	tlsCfg := &tls.Config{
		ServerName:         r.Host,
		InsecureSkipVerify: r.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}
	if err := sess.StartTLS(tlsCfg); err != nil {
		_ = sess.Close()
		return nil, wrap(KindConnection, "starttls failed", err)
	}

	if err := sess.Auth(r.Username, r.Password); err != nil {
		_ = sess.Close()
		return nil, wrap(KindAuthentication, "smtp authentication failed", err)
	}

	return sess, nil
}

// close never replaces an error already being returned.
func (c *Client) close(sess Session, errp *error) {
	cerr := sess.Close()
	if cerr == nil || *errp != nil {
		return
	}
	c.log.Warn("smtp session close failed", "error", cerr)
}

func (c *Client) record(ctx context.Context, span trace.Span, err error) {
	result := "ok"
	if err != nil {
		result = KindOf(err).String()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if c.sends != nil {
		c.sends.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}
}
