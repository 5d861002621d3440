package email

import (
	"bytes"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

const dialTimeout = 30 * time.Second

var errNoSession = errors.New("smtp session used before STARTTLS")

type smtpDialer struct{}

// Dial only opens the TCP connection. The greeting and EHLO are read by
// StartTLS, which is the only way go-smtp upgrades an existing connection.
func (smtpDialer) Dial(host string, port int) (Session, error) {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), dialTimeout)
	if err != nil {
		return nil, err
	}
	return &smtpSession{conn: conn}, nil
}

type smtpSession struct {
	conn net.Conn
	c    *smtp.Client
}

// StartTLS refuses to continue in plaintext; a relay that does not
// advertise STARTTLS fails here and credentials are never sent.
func (s *smtpSession) StartTLS(cfg *tls.Config) error {
	c, err := smtp.NewClientStartTLS(s.conn, cfg)
	if err != nil {
		return err
	}
	s.c = c
	return nil
}

func (s *smtpSession) Auth(username, password string) error {
	if s.c == nil {
		return errNoSession
	}
	return s.c.Auth(sasl.NewPlainClient("", username, password))
}

func (s *smtpSession) Send(from string, to []string, msg io.WriterTo) error {
	if s.c == nil {
		return errNoSession
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	return s.c.SendMail(from, to, &buf)
}

// Close sends QUIT and drops the connection even if QUIT fails. Before
// STARTTLS succeeded there is no client and only the socket is closed.
func (s *smtpSession) Close() error {
	if s.c == nil {
		return s.conn.Close()
	}
	if err := s.c.Quit(); err != nil {
		_ = s.c.Close()
		return err
	}
	return nil
}
