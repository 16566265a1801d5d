// Package services – owner notification.
//
// The Notifier renders a human-readable email for an accepted submission and
// dispatches it through the mail.Sender transport. One best-effort attempt
// per submission: no retries, no queueing, no delivery tracking. Failures
// wrap ErrNotification and never fail the submission itself.
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/bpatel/go-portfolio-backend/internal/domain"
	"github.com/bpatel/go-portfolio-backend/internal/mail"
)

// OwnerEmail is the fixed notification recipient. The site has exactly one
// owner, so this is a constant rather than configuration.
const OwnerEmail = "badal1811@gmail.com"

// notifyTmpl is the HTML body sent to the site owner. Submission fields are
// template-escaped; the form accepts arbitrary text.
var notifyTmpl = template.Must(template.New("notify").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #333; border-bottom: 2px solid #4A90E2; padding-bottom: 10px;">
        New Contact Form Submission
    </h2>

    <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3 style="color: #4A90E2; margin-top: 0;">Contact Details:</h3>
        <p><strong>Name:</strong> {{.Name}}</p>
        <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
        {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
        <p><strong>Submitted:</strong> {{.Submitted}}</p>
    </div>

    <div style="background: #fff; padding: 20px; border-left: 4px solid #4A90E2; margin: 20px 0;">
        <h3 style="color: #333; margin-top: 0;">Message:</h3>
        <p style="line-height: 1.6; color: #555;">{{.Message}}</p>
    </div>
</div>`))

// Notifier sends the owner a formatted email per accepted submission.
type Notifier struct {
	Sender    mail.Sender
	From      string // configured sending account (EMAIL_USER)
	Recipient string // defaults to OwnerEmail when empty
}

// NewNotifier constructs a Notifier bound to the given transport and sending
// account. The recipient is the fixed owner address.
func NewNotifier(sender mail.Sender, from string) *Notifier {
	return &Notifier{Sender: sender, From: from, Recipient: OwnerEmail}
}

// Notify renders and dispatches the notification for c. Errors from the
// transport are wrapped with ErrNotification so callers can recognize (and
// swallow) them without string matching.
func (n *Notifier) Notify(ctx context.Context, c *domain.Contact) error {
	if n == nil || n.Sender == nil {
		return fmt.Errorf("%w: no mail transport configured", ErrNotification)
	}

	to := n.Recipient
	if to == "" {
		to = OwnerEmail
	}

	submitted := c.SubmittedAt.Format("Jan 2, 2006 15:04 MST")

	var html bytes.Buffer
	err := notifyTmpl.Execute(&html, map[string]string{
		"Name":      c.Name,
		"Email":     c.Email,
		"Phone":     c.Phone,
		"Submitted": submitted,
		"Message":   c.Message,
	})
	if err != nil {
		return fmt.Errorf("%w: render: %v", ErrNotification, err)
	}

	text := fmt.Sprintf("New contact form submission\n\nName: %s\nEmail: %s\n", c.Name, c.Email)
	if c.Phone != "" {
		text += fmt.Sprintf("Phone: %s\n", c.Phone)
	}
	text += fmt.Sprintf("Submitted: %s\n\n%s\n", submitted, c.Message)

	msg := mail.Message{
		From:     n.From,
		To:       to,
		Subject:  "New Portfolio Contact: " + c.Name,
		HTMLBody: html.String(),
		TextBody: text,
	}
	if err := n.Sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrNotification, err)
	}
	return nil
}
