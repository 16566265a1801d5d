package mail

import (
	"context"

	gomail "gopkg.in/gomail.v2"
)

// SMTPSender delivers mail through an authenticated SMTP endpoint using
// gomail. Each Send dials a fresh connection; submission volume is far too
// low to justify keeping a connection open.
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender builds an SMTPSender for the given endpoint and credentials.
// For Gmail use host "smtp.gmail.com", port 587, and an app password.
func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send implements Sender. The underlying dial is not cancellable mid-flight,
// so ctx is only consulted before the attempt starts.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.TextBody != "" {
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	} else {
		m.SetBody("text/html", msg.HTMLBody)
	}

	return s.dialer.DialAndSend(m)
}
