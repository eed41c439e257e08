// Package mail sends HTML email over SMTP.
package mail

import (
	"barberbook/internal/pkg/logger"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends email through an SMTP relay. PLAIN auth is used when a
// username is configured.
type SMTPSender struct {
	addr     string
	host     string
	from     string
	auth     smtp.Auth
	sendMail sendFunc
	log      logger.Logger
}

// NewSMTPSender creates a sender for host:port.
func NewSMTPSender(host string, port int, username, password, from string, log logger.Logger) *SMTPSender {
	host = strings.TrimSpace(host)
	from = strings.TrimSpace(from)
	if from == "" {
		from = username
	}
	if from == "" {
		from = "no-reply@barberbook.local"
	}
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		from:     from,
		auth:     auth,
		sendMail: smtp.SendMail,
		log:      log,
	}
}

// SendEmail sends an HTML email. net/smtp has no context support, so ctx
// only bounds how long the caller waits.
func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := buildMessage(s.from, to, subject, html, time.Now())

	// The send is not interrupted when ctx ends; it finishes in the background
	// and its result lands in the buffered channel.
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.addr, s.auth, s.from, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		s.log.Debug(fmt.Sprintf("Email %q sent to %s", subject, to))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email to %s: %w", to, ctx.Err())
	}
}

func buildMessage(from, to, subject, html string, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")
	return []byte(b.String())
}
