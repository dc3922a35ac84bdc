package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	from string
	msgs []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, envelopeFrom string, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.from = envelopeFrom
	r.msgs = append(r.msgs, msg)
	return nil
}

func TestSendPasswordResetEmail(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "Expense Tracker", "mailer@example.com", "http://localhost:3000/")

	token := "0123456789abcdef0123456789abcdef01234567"
	require.NoError(t, svc.SendPasswordResetEmail(context.Background(), "user@example.com", token))

	require.Len(t, sender.msgs, 1)
	msg := sender.msgs[0]
	assert.Equal(t, "mailer@example.com", sender.from)
	assert.Equal(t, `"Expense Tracker" <mailer@example.com>`, msg.From)
	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, "Password Reset Request", msg.Subject)
	assert.Contains(t, msg.HTML, `href="http://localhost:3000/reset-password/`+token+`"`)

	raw := string(msg.Bytes())
	assert.Contains(t, raw, "Subject: Password Reset Request\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n")
}

func TestSendPasswordResetEmailFailure(t *testing.T) {
	boom := errors.New("535 authentication failed")
	svc := NewService(&recordingSender{err: boom}, "Expense Tracker", "mailer@example.com", "http://localhost:3000")

	err := svc.SendPasswordResetEmail(context.Background(), "user@example.com", "tok")
	assert.ErrorIs(t, err, boom)
}

func TestResetLinkEscapesToken(t *testing.T) {
	svc := NewService(&recordingSender{}, "Expense Tracker", "m@example.com", "https://app.example")
	assert.Equal(t, "https://app.example/reset-password/a%2Fb", svc.ResetLink("a/b"))
}
