// Package smtptest runs an in-process SMTP submission relay for tests.
//
// The relay speaks ESMTP with optional STARTTLS (self-signed certificate),
// requires AUTH PLAIN before MAIL FROM and records every accepted message.
package smtptest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Message is one accepted submission.
type Message struct {
	From string
	To   []string
	Data []byte
}

type Options struct {
	User string
	Pass string
	// Reject is refused at RCPT with 550.
	Reject string
	// NoTLS stops the relay from advertising STARTTLS.
	NoTLS bool
}

type Relay struct {
	Host string
	Port int

	opts Options

	mu       sync.Mutex
	messages []Message
}

// Start serves a relay on a loopback port until the test ends.
func Start(t testing.TB, opts Options) *Relay {
	t.Helper()

	r := &Relay{Host: "127.0.0.1", opts: opts}

	s := smtp.NewServer(r)
	s.Domain = "localhost"
	s.ReadTimeout = 5 * time.Second
	s.WriteTimeout = 5 * time.Second
	if !opts.NoTLS {
		s.TLSConfig = &tls.Config{Certificates: []tls.Certificate{selfSignedCert(t)}}
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("smtptest: listen: %v", err)
	}
	r.Port = l.Addr().(*net.TCPAddr).Port

	go func() { _ = s.Serve(l) }()
	t.Cleanup(func() { _ = s.Close() })

	return r
}

// PortString is Port formatted the way the email settings carry it.
func (r *Relay) PortString() string {
	return strconv.Itoa(r.Port)
}

func (r *Relay) Received() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

func (r *Relay) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{relay: r}, nil
}

type session struct {
	relay  *Relay
	authed bool
	msg    Message
}

func (s *session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *session) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != s.relay.opts.User || password != s.relay.opts.Pass {
			return &smtp.SMTPError{
				Code:         535,
				EnhancedCode: smtp.EnhancedCode{5, 7, 8},
				Message:      "authentication failed",
			}
		}
		s.authed = true
		return nil
	}), nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return smtp.ErrAuthRequired
	}
	s.msg.From = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if s.relay.opts.Reject != "" && to == s.relay.opts.Reject {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "relay access denied",
		}
	}
	s.msg.To = append(s.msg.To, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.msg.Data = b

	s.relay.mu.Lock()
	s.relay.messages = append(s.relay.messages, s.msg)
	s.relay.mu.Unlock()
	return nil
}

func (s *session) Reset() { s.msg = Message{} }

func (s *session) Logout() error { return nil }

func selfSignedCert(t testing.TB) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("smtptest: generate key: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("smtptest: create certificate: %v", err)
	}

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}
