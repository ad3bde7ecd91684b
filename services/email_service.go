package services

import (
	"context"
	"fmt"

	"blogapi/config"
	"blogapi/logger"

	"github.com/wneessen/go-mail"
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.DefaultFromEmail}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	logger.InfoWithFields("email", logger.Fields{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}

// NewMailer picks SMTP delivery when configured and falls back to logging.
func NewMailer(cfg *config.Config) Mailer {
	if !cfg.MailEnabled() {
		return LogMailer{}
	}
	m, err := NewSMTPMailer(cfg)
	if err != nil {
		logger.ErrorWithFields("mailer setup failed, logging emails instead", logger.Fields{"error": err.Error()})
		return LogMailer{}
	}
	return m
}

const (
	welcomeSubject       = "Welcome to Our Platform!"
	passwordResetSubject = "Password Reset Request"
)

// EmailService sends account notifications. Delivery problems never reach
// the caller as errors; they are logged and reported as false.
type EmailService struct {
	mailer      Mailer
	frontendURL string
}

func NewEmailService(mailer Mailer, frontendURL string) *EmailService {
	return &EmailService{mailer: mailer, frontendURL: frontendURL}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, firstName string) bool {
	body := fmt.Sprintf("Hello %s, welcome to our platform!", firstName)
	return s.deliver(ctx, email, welcomeSubject, body)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, email, token string) bool {
	body := fmt.Sprintf("Click here to reset your password: %s", s.ResetLink(token))
	return s.deliver(ctx, email, passwordResetSubject, body)
}

func (s *EmailService) ResetLink(token string) string {
	return fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
}

func (s *EmailService) deliver(ctx context.Context, to, subject, body string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithFields("email delivery panicked", logger.Fields{
				"to":      to,
				"subject": subject,
				"panic":   fmt.Sprint(r),
			})
			ok = false
		}
	}()

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		logger.ErrorWithFields("email delivery failed", logger.Fields{
			"to":      to,
			"subject": subject,
			"error":   err.Error(),
		})
		return false
	}
	return true
}
