package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/config"
	"github.com/noah-isme/portfolio-api/internal/observability"
)

// EmailNotConfiguredReason is reported when any SMTP setting is missing.
const EmailNotConfiguredReason = "Email not configured (set EMAIL_HOST, EMAIL_PORT, EMAIL_USER, EMAIL_PASS, EMAIL_TO)."

// ContactNotification is the data embedded in the notification email.
type ContactNotification struct {
	Name        string
	Email       string
	Message     string
	SubmittedAt time.Time
	ReceivedAt  time.Time
}

// DeliveryResult is the outcome of a best-effort notification.
// The zero value is a failed delivery without a reason.
type DeliveryResult struct {
	sent   bool
	reason string
}

// Delivered reports a sent notification.
func Delivered() DeliveryResult {
	return DeliveryResult{sent: true}
}

// NotDelivered reports a skipped or failed notification.
func NotDelivered(reason string) DeliveryResult {
	return DeliveryResult{reason: reason}
}

// Sent reports whether the message was accepted by the SMTP server.
func (r DeliveryResult) Sent() bool {
	return r.sent
}

// Reason explains why the message was not sent.
func (r DeliveryResult) Reason() string {
	return r.reason
}

// Status renders the result as "sent" or "not_sent: <reason>".
func (r DeliveryResult) Status() string {
	if r.sent {
		return "sent"
	}
	return "not_sent: " + r.reason
}

// ContactNotifier delivers contact notifications. Implementations never fail the caller:
// every problem is folded into the returned DeliveryResult.
type ContactNotifier interface {
	Notify(ctx context.Context, notification ContactNotification) DeliveryResult
}

// NewContactNotifier returns an SMTP notifier when cfg is complete, otherwise one that skips delivery.
func NewContactNotifier(cfg config.EmailConfig, logger zerolog.Logger) ContactNotifier {
	if !cfg.Enabled() {
		return NewDisabledContactNotifier(logger)
	}
	return NewSMTPContactNotifier(cfg, logger)
}

// DisabledContactNotifier never opens a connection.
type DisabledContactNotifier struct {
	logger zerolog.Logger
}

// NewDisabledContactNotifier constructs a notifier for deployments without SMTP settings.
func NewDisabledContactNotifier(logger zerolog.Logger) *DisabledContactNotifier {
	return &DisabledContactNotifier{logger: logger.With().Str("component", "contact_delivery").Logger()}
}

// Notify skips delivery and explains which settings are required.
func (d *DisabledContactNotifier) Notify(ctx context.Context, notification ContactNotification) DeliveryResult {
	d.logger.Debug().Str("email", maskEmailAddress(notification.Email)).Msg("email not configured, skipping notification")
	observability.ContactNotifications().WithLabelValues("not_sent").Inc()
	return NotDelivered(EmailNotConfiguredReason)
}
