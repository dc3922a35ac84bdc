package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"net/url"
	"strings"

	"github.com/redmonkez12/expense-api/internal/logging"
)

const passwordResetSubject = "Password Reset Request"

var passwordResetTemplate = template.Must(template.New("passwordReset").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .button {
            display: inline-block;
            background-color: #0F766E;
            color: white !important;
            padding: 12px 30px;
            text-decoration: none;
            border-radius: 5px;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #666;
        }
    </style>
</head>
<body>
    <h2>{{.AppName}}</h2>
    <p>You are receiving this because you (or someone else) requested a password reset for your account.</p>
    <p>Click the link below to choose a new password:</p>

    <a href="{{.ResetLink}}" class="button" style="color: white !important;">Reset Password</a>

    <p style="word-break: break-all;">{{.ResetLink}}</p>

    <p>If you did not request this, please ignore this email and your password will remain unchanged.</p>
    <div class="footer">
        <p>This link will expire in 1 hour and can be used once.</p>
    </div>
</body>
</html>
`))

// Service composes transactional emails and hands them to a Sender.
type Service struct {
	sender    Sender
	from      mail.Address
	clientURL string
}

func NewService(sender Sender, fromName, fromEmail, clientURL string) *Service {
	return &Service{
		sender:    sender,
		from:      mail.Address{Name: fromName, Address: fromEmail},
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// SendPasswordResetEmail mails the reset link for token to toEmail.
// It blocks until the SMTP server accepts or rejects the message.
func (s *Service) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	logger := logging.GetLoggerFromContext(ctx)

	body, err := s.renderPasswordReset(s.ResetLink(token))
	if err != nil {
		logger.Error("failed to render password reset email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	msg := Message{
		From:    s.from.String(),
		To:      toEmail,
		Subject: passwordResetSubject,
		HTML:    body,
	}

	if err := s.sender.Send(ctx, s.from.Address, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("password reset email sent")
	return nil
}

// ResetLink returns the client page that accepts token.
func (s *Service) ResetLink(token string) string {
	return s.clientURL + "/reset-password/" + url.PathEscape(token)
}

func (s *Service) renderPasswordReset(resetLink string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		AppName   string
		ResetLink string
	}{
		AppName:   s.from.Name,
		ResetLink: resetLink,
	}

	if err := passwordResetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
