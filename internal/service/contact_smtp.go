package service

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/config"
	"github.com/noah-isme/portfolio-api/internal/observability"
)

const contactNotificationSubject = "New Portfolio Contact Submission"

// ErrStartTLSUnsupported is returned when the server does not offer a TLS upgrade.
var ErrStartTLSUnsupported = errors.New("STARTTLS extension not supported by server")

// SMTPContactNotifier sends a plain-text email over an SMTP connection upgraded with STARTTLS.
type SMTPContactNotifier struct {
	cfg       config.EmailConfig
	dialer    *net.Dialer
	tlsConfig *tls.Config
	now       func() time.Time
	logger    zerolog.Logger
}

// NewSMTPContactNotifier constructs a notifier for the given settings.
func NewSMTPContactNotifier(cfg config.EmailConfig, logger zerolog.Logger) *SMTPContactNotifier {
	return &SMTPContactNotifier{
		cfg:    cfg,
		dialer: &net.Dialer{},
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
		now:    time.Now,
		logger: logger.With().Str("component", "contact_delivery").Str("smtp_host", cfg.Host).Logger(),
	}
}

// Notify sends the notification and reduces any failure to its message.
func (n *SMTPContactNotifier) Notify(ctx context.Context, notification ContactNotification) DeliveryResult {
	masked := maskEmailAddress(notification.Email)
	if err := n.send(ctx, notification); err != nil {
		n.logger.Warn().Err(err).Str("email", masked).Msg("contact notification not sent")
		observability.ContactNotifications().WithLabelValues("not_sent").Inc()
		return NotDelivered(err.Error())
	}

	n.logger.Info().Str("email", masked).Msg("contact notification sent")
	observability.ContactNotifications().WithLabelValues("sent").Inc()
	return Delivered()
}

func (n *SMTPContactNotifier) send(ctx context.Context, notification ContactNotification) error {
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := n.dialer.DialContext(ctx, "tcp", n.cfg.Address())
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return ErrStartTLSUnsupported
	}
	if err := client.StartTLS(n.tlsConfig); err != nil {
		return err
	}

	if err := client.Auth(smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)); err != nil {
		return err
	}

	from := n.cfg.User
	to := n.cfg.Recipient()
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildContactMessage(from, to, notification, n.now())); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func buildContactMessage(from, to string, notification ContactNotification, now time.Time) []byte {
	domain := "localhost"
	if idx := strings.LastIndex(from, "@"); idx >= 0 && idx < len(from)-1 {
		domain = from[idx+1:]
	}

	var b strings.Builder
	writeHeader := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(headerValue(value))
		b.WriteString("\r\n")
	}

	writeHeader("From", from)
	writeHeader("To", to)
	writeHeader("Subject", contactNotificationSubject)
	writeHeader("Date", now.Format(time.RFC1123Z))
	writeHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domain))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/plain; charset="utf-8"`)
	writeHeader("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body := contactNotificationBody(notification)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")

	return []byte(b.String())
}

func contactNotificationBody(notification ContactNotification) string {
	body := fmt.Sprintf(`
You have a new contact form submission:

Name: %s
Email: %s
Submitted At: %s
Received At: %s

Message:
%s
`,
		notification.Name,
		notification.Email,
		notification.SubmittedAt.Format(time.RFC3339Nano),
		notification.ReceivedAt.Format(time.RFC3339Nano),
		notification.Message,
	)
	return strings.TrimSpace(body)
}
