// Package mail delivers pins to users out-of-band. The plaintext admin pin
// and the login pin travel only through this channel, never through an HTTP
// response body.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Dispatcher sends a plain-text email.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPDispatcher delivers via a plain SMTP relay.
type SMTPDispatcher struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPDispatcher constructs a dispatcher for the given relay. With an
// empty username, no authentication is attempted (local dev relays).
func NewSMTPDispatcher(host string, port int, username, password, from string) *SMTPDispatcher {
	return &SMTPDispatcher{host: host, port: port, username: username, password: password, from: from}
}

// sendMail is a seam for testing smtp.SendMail.
var sendMail = smtp.SendMail

func (d *SMTPDispatcher) Send(ctx context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", d.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	var auth smtp.Auth
	if d.username != "" {
		auth = smtp.PlainAuth("", d.username, d.password, d.host)
	}

	addr := fmt.Sprintf("%s:%d", d.host, d.port)
	if err := sendMail(addr, auth, d.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
