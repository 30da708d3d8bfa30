package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/ctecg/score-api/pkg/logger"
	"github.com/ctecg/score-api/pkg/metrics"
	"github.com/ctecg/score-api/pkg/retry"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings. Mail sending is disabled when Host is empty.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailerInterface defines the mail operations services depend on
type MailerInterface interface {
	Enabled() bool
	SendRatingLink(clientEmail, clientName, ratingURL, expiresAt string)
	SendPasswordReset(email, name, resetURL string)
}

// Mailer sends transactional mail (rating links, password resets)
type Mailer struct {
	cfg Config
}

var _ MailerInterface = (*Mailer)(nil)

// New creates a mailer from SMTP configuration
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP is configured
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// Send delivers a single HTML email, retrying transient SMTP failures
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	return retry.Do(ctx, retry.MailConfig(), "smtp_send", func() error {
		return d.DialAndSend(msg)
	})
}

// SendRatingLink emails a rating request to a client. Delivery runs in a
// goroutine; a failed send is logged and counted but does not fail the
// link-issuing request.
func (m *Mailer) SendRatingLink(clientEmail, clientName, ratingURL, expiresAt string) {
	if !m.Enabled() {
		return
	}

	go func() {
		body := fmt.Sprintf(
			"<p>Hi %s,</p>"+
				"<p>Please rate the service you received from our technicians:</p>"+
				"<p><a href=\"%s\">%s</a></p>"+
				"<p>This link expires on %s.</p>",
			clientName, ratingURL, ratingURL, expiresAt)

		if err := m.Send(clientEmail, "How did we do? Rate your Ctecg service", body); err != nil {
			metrics.EmailsSent.WithLabelValues("rating_link", "error").Inc()
			logger.Error("Failed to send rating link email",
				zap.Error(err),
				zap.String("client_email", clientEmail))
			return
		}
		metrics.EmailsSent.WithLabelValues("rating_link", "success").Inc()
		logger.Info("Rating link email sent", zap.String("client_email", clientEmail))
	}()
}

// SendPasswordReset emails a password reset link to a user
func (m *Mailer) SendPasswordReset(email, name, resetURL string) {
	if !m.Enabled() {
		return
	}

	go func() {
		body := fmt.Sprintf(
			"<p>Hi %s,</p>"+
				"<p>A password reset was requested for your Ctecg Score account. "+
				"Follow the link below to choose a new password:</p>"+
				"<p><a href=\"%s\">%s</a></p>"+
				"<p>If you did not request this, you can ignore this email.</p>",
			name, resetURL, resetURL)

		if err := m.Send(email, "Ctecg Score password reset", body); err != nil {
			metrics.EmailsSent.WithLabelValues("password_reset", "error").Inc()
			logger.Error("Failed to send password reset email",
				zap.Error(err),
				zap.String("email", email))
			return
		}
		metrics.EmailsSent.WithLabelValues("password_reset", "success").Inc()
		logger.Info("Password reset email sent", zap.String("email", email))
	}()
}
