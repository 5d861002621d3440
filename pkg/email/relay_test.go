package email

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/simorq_mailer/pkg/email/smtptest"
)

func startRelay(t *testing.T, opts smtptest.Options) (*smtptest.Relay, Settings) {
	t.Helper()

	if opts.User == "" {
		opts.User, opts.Pass = "test@test.com", "password"
	}
	r := smtptest.Start(t, opts)
	return r, Settings{
		Host:               r.Host,
		Port:               r.PortString(),
		Username:           opts.User,
		Password:           opts.Pass,
		InsecureSkipVerify: true,
	}
}

func TestRelay_SendOverStartTLS(t *testing.T) {
	r, s := startRelay(t, smtptest.Options{})
	c, err := New(StaticSettings(s))
	require.NoError(t, err)

	err = c.Send(context.Background(), testMessage())
	require.NoError(t, err)

	got := r.Received()
	require.Len(t, got, 1)
	assert.Equal(t, "test@test.com", got[0].From)
	assert.Equal(t, []string{"user@test.com"}, got[0].To)
	assert.Contains(t, string(got[0].Data), "Subject: Thank you for your message")
	assert.Contains(t, string(got[0].Data), "text/html")
}

func TestRelay_StartTLSNotAdvertised(t *testing.T) {
	r, s := startRelay(t, smtptest.Options{NoTLS: true})
	c, err := New(StaticSettings(s))
	require.NoError(t, err)

	err = c.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Equal(t, KindConnection, KindOf(err))
	assert.Contains(t, err.Error(), "STARTTLS")
	assert.Empty(t, r.Received())
}

func TestRelay_BadCredentials(t *testing.T) {
	r, s := startRelay(t, smtptest.Options{})
	s.Password = "wrong"
	c, err := New(StaticSettings(s))
	require.NoError(t, err)

	err = c.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Equal(t, KindAuthentication, KindOf(err))
	assert.Empty(t, r.Received())
}

func TestRelay_RecipientRejected(t *testing.T) {
	_, s := startRelay(t, smtptest.Options{Reject: "blocked@test.com"})
	c, err := New(StaticSettings(s))
	require.NoError(t, err)

	m := testMessage()
	m.To = "blocked@test.com"
	err = c.Send(context.Background(), m)
	require.Error(t, err)
	assert.Equal(t, KindTransmission, KindOf(err))

	var smtpErr *smtp.SMTPError
	if assert.ErrorAs(t, err, &smtpErr) {
		assert.Equal(t, 550, smtpErr.Code)
	}
}

func TestRelay_Unreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	s := validSettings()
	s.Host = "127.0.0.1"
	s.Port = strconv.Itoa(port)
	c, err := New(StaticSettings(s))
	require.NoError(t, err)

	err = c.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Equal(t, KindConnection, KindOf(err))
}

func TestRelay_Verify(t *testing.T) {
	r, s := startRelay(t, smtptest.Options{})
	c, err := New(StaticSettings(s))
	require.NoError(t, err)

	require.NoError(t, c.Verify(context.Background()))
	assert.Empty(t, r.Received())
}

func TestRelay_MailboxWhitespaceIsNormalized(t *testing.T) {
	r, s := startRelay(t, smtptest.Options{})
	s.Username = " test@test.com\n"
	c, err := New(StaticSettings(s))
	require.NoError(t, err)

	err = c.SendComposed(context.Background(), func(mailbox string) Message {
		m := testMessage()
		m.From, m.To = mailbox, mailbox
		return m
	})
	require.NoError(t, err)

	got := r.Received()
	require.Len(t, got, 1)
	assert.Equal(t, "test@test.com", got[0].From)
	assert.Equal(t, []string{"test@test.com"}, got[0].To)
}
