package service

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/config"
)

func sampleNotification() ContactNotification {
	return ContactNotification{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Message:     "Hello there.\nSecond line.",
		SubmittedAt: time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC),
		ReceivedAt:  time.Date(2025, 5, 1, 8, 30, 2, 0, time.UTC),
	}
}

func newTestSMTPNotifier(server *fakeSMTPServer, to string) *SMTPContactNotifier {
	cfg := config.EmailConfig{
		Host:     server.host(),
		Port:     server.port(),
		User:     "portfolio@example.com",
		Password: "app-password",
		To:       to,
	}
	notifier := NewSMTPContactNotifier(cfg, zerolog.Nop())
	notifier.tlsConfig = &tls.Config{ServerName: cfg.Host, RootCAs: server.rootCAs, MinVersion: tls.VersionTLS12}
	return notifier
}

func TestDeliveryResultStatus(t *testing.T) {
	require.Equal(t, "sent", Delivered().Status())
	require.True(t, Delivered().Sent())

	result := NotDelivered("connection refused")
	require.False(t, result.Sent())
	require.Equal(t, "connection refused", result.Reason())
	require.Equal(t, "not_sent: connection refused", result.Status())
}

func TestNewContactNotifierSelectsImplementation(t *testing.T) {
	disabled := NewContactNotifier(config.EmailConfig{Host: "smtp.example.com"}, zerolog.Nop())
	require.IsType(t, &DisabledContactNotifier{}, disabled)

	enabled := NewContactNotifier(config.EmailConfig{
		Host: "smtp.example.com", Port: 587, User: "me@example.com", Password: "secret",
	}, zerolog.Nop())
	require.IsType(t, &SMTPContactNotifier{}, enabled)
}

func TestDisabledContactNotifierSkips(t *testing.T) {
	result := NewDisabledContactNotifier(zerolog.Nop()).Notify(context.Background(), sampleNotification())
	require.False(t, result.Sent())
	require.Equal(t, "not_sent: "+EmailNotConfiguredReason, result.Status())
}

func TestSMTPContactNotifierSendsMessage(t *testing.T) {
	server := startFakeSMTPServer(t, true)
	notifier := newTestSMTPNotifier(server, "inbox@example.com")

	result := notifier.Notify(context.Background(), sampleNotification())
	require.True(t, result.Sent(), result.Status())
	require.Equal(t, "sent", result.Status())

	messages := server.receivedMessages()
	require.Len(t, messages, 1)
	message := messages[0]
	require.Contains(t, message, "From: portfolio@example.com\n")
	require.Contains(t, message, "To: inbox@example.com\n")
	require.Contains(t, message, "Subject: New Portfolio Contact Submission\n")
	require.Contains(t, message, "Name: Ada Lovelace\n")
	require.Contains(t, message, "Email: ada@example.com\n")
	require.Contains(t, message, "Submitted At: 2025-05-01T08:30:00Z\n")
	require.Contains(t, message, "Received At: 2025-05-01T08:30:02Z\n")
	require.True(t, strings.HasSuffix(strings.TrimSpace(message), "Hello there.\nSecond line."))

	require.Equal(t, []string{"RCPT TO:<inbox@example.com>"}, server.receivedRecipients())
}

func TestSMTPContactNotifierDefaultsRecipientToUser(t *testing.T) {
	server := startFakeSMTPServer(t, true)
	notifier := newTestSMTPNotifier(server, "")

	result := notifier.Notify(context.Background(), sampleNotification())
	require.True(t, result.Sent(), result.Status())
	require.Equal(t, []string{"RCPT TO:<portfolio@example.com>"}, server.receivedRecipients())
}

func TestSMTPContactNotifierRequiresStartTLS(t *testing.T) {
	server := startFakeSMTPServer(t, false)
	notifier := newTestSMTPNotifier(server, "inbox@example.com")

	result := notifier.Notify(context.Background(), sampleNotification())
	require.False(t, result.Sent())
	require.Equal(t, "not_sent: "+ErrStartTLSUnsupported.Error(), result.Status())
	require.Empty(t, server.receivedMessages())
}

func TestSMTPContactNotifierAuthRejected(t *testing.T) {
	server := startFakeSMTPServer(t, true)
	server.rejectAuth = true
	notifier := newTestSMTPNotifier(server, "inbox@example.com")

	result := notifier.Notify(context.Background(), sampleNotification())
	require.False(t, result.Sent())
	require.Contains(t, result.Reason(), "535")
	require.Empty(t, server.receivedMessages())
}

func TestSMTPContactNotifierUnreachableHost(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().(*net.TCPAddr)
	require.NoError(t, listener.Close())

	notifier := NewSMTPContactNotifier(config.EmailConfig{
		Host:     "127.0.0.1",
		Port:     addr.Port,
		User:     "portfolio@example.com",
		Password: "app-password",
	}, zerolog.Nop())

	result := notifier.Notify(context.Background(), sampleNotification())
	require.False(t, result.Sent())
	require.True(t, strings.HasPrefix(result.Status(), "not_sent: "))
	require.NotEmpty(t, result.Reason())
}

func TestBuildContactMessageFoldsHeaders(t *testing.T) {
	message := string(buildContactMessage("me@example.com", "you@example.com\r\nBcc: evil@example.com", sampleNotification(), time.Unix(0, 0).UTC()))

	headers := message[:strings.Index(message, "\r\n\r\n")]
	require.NotContains(t, headers, "\r\nBcc:")
	require.Contains(t, headers, "To: you@example.com Bcc: evil@example.com")
	require.Contains(t, headers, "Message-ID: <")
	require.Contains(t, headers, "@example.com>")
}

func TestMaskEmailAddress(t *testing.T) {
	require.Equal(t, "a***e@example.com", maskEmailAddress("Alice@Example.com"))
	require.Equal(t, "a***@example.com", maskEmailAddress("al@example.com"))
	require.Equal(t, "***", maskEmailAddress("not-an-email"))
	require.Equal(t, "***", maskEmailAddress("@example.com"))
	require.Equal(t, "", maskEmailAddress("  "))
}

func TestMaskEmailAddressKeepsMultibyteRunes(t *testing.T) {
	for email, want := range map[string]string{
		"élodie@example.com": "é***e@example.com",
		"ñ@example.com":      "ñ***@example.com",
		"日本語@example.jp":     "日***語@example.jp",
	} {
		got := maskEmailAddress(email)
		require.Equal(t, want, got)
		require.True(t, utf8.ValidString(got), got)
	}
}

func TestTruncateRunes(t *testing.T) {
	require.Equal(t, "abc", truncateRunes("abc", 50))
	require.Equal(t, "ab", truncateRunes("abc", 2))
	require.Equal(t, "⚠️", truncateRunes("⚠️ warning", 2))
}
