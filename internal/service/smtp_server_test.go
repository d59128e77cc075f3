package service

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSMTPServer speaks just enough ESMTP for net/smtp: EHLO, STARTTLS, AUTH, MAIL, RCPT, DATA, QUIT.
type fakeSMTPServer struct {
	listener    net.Listener
	tlsConfig   *tls.Config
	rootCAs     *x509.CertPool
	rejectAuth  bool
	mu          sync.Mutex
	connections int
	senders     []string
	recipients  []string
	messages    []string
}

func startFakeSMTPServer(t *testing.T, offerTLS bool) *fakeSMTPServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &fakeSMTPServer{listener: listener}
	if offerTLS {
		// httptest carries a certificate valid for 127.0.0.1.
		certSource := httptest.NewTLSServer(http.NotFoundHandler())
		t.Cleanup(certSource.Close)
		server.tlsConfig = &tls.Config{Certificates: certSource.TLS.Certificates}
		server.rootCAs = certSource.Client().Transport.(*http.Transport).TLSClientConfig.RootCAs
	}

	go server.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return server
}

func (s *fakeSMTPServer) host() string {
	host, _, _ := net.SplitHostPort(s.listener.Addr().String())
	return host
}

func (s *fakeSMTPServer) port() int {
	_, port, _ := net.SplitHostPort(s.listener.Addr().String())
	value, _ := strconv.Atoi(port)
	return value
}

func (s *fakeSMTPServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTPServer) handle(conn net.Conn) {
	defer conn.Close()

	s.mu.Lock()
	s.connections++
	s.mu.Unlock()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake.smtp ESMTP ready")
	secure := false

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			_ = tp.PrintfLine("500 empty command")
			continue
		}

		switch strings.ToUpper(fields[0]) {
		case "EHLO", "HELO":
			lines := []string{"fake.smtp"}
			if s.tlsConfig != nil && !secure {
				lines = append(lines, "STARTTLS")
			}
			if secure {
				lines = append(lines, "AUTH PLAIN")
			}
			for i, l := range lines {
				sep := "-"
				if i == len(lines)-1 {
					sep = " "
				}
				_ = tp.PrintfLine("250%s%s", sep, l)
			}
		case "STARTTLS":
			_ = tp.PrintfLine("220 2.0.0 ready to start TLS")
			tlsConn := tls.Server(conn, s.tlsConfig)
			if err := tlsConn.Handshake(); err != nil {
				return
			}
			tp = textproto.NewConn(tlsConn)
			secure = true
		case "AUTH":
			if s.rejectAuth {
				_ = tp.PrintfLine("535 5.7.8 authentication credentials invalid")
				continue
			}
			_ = tp.PrintfLine("235 2.7.0 authentication successful")
		case "MAIL":
			s.mu.Lock()
			s.senders = append(s.senders, line)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.0 ok")
		case "RCPT":
			s.mu.Lock()
			s.recipients = append(s.recipients, line)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.5 ok")
		case "DATA":
			_ = tp.PrintfLine("354 end data with <CR><LF>.<CR><LF>")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.messages = append(s.messages, string(data))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 2.0.0 bye")
			return
		default:
			_ = tp.PrintfLine("502 5.5.2 command not recognized")
		}
	}
}

func (s *fakeSMTPServer) connectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections
}

func (s *fakeSMTPServer) receivedMessages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *fakeSMTPServer) receivedRecipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recipients...)
}
