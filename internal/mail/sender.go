// Package mail abstracts outbound email so business logic never talks to an
// SMTP server directly. Services depend on the Sender interface; the concrete
// transport (Gmail SMTP in production, a fake in tests) is injected at
// construction time.
package mail

import "context"

// Message represents a single email to be sent.
type Message struct {
	From     string // sender address, usually the configured account
	To       string // recipient address
	Subject  string
	HTMLBody string // rendered HTML body
	TextBody string // plain-text alternative; optional
}

// Sender is implemented by all mail transports. Implementations must be safe
// for concurrent use and should honor ctx for cancellation.
type Sender interface {
	// Send delivers msg in a single best-effort attempt. No retries, no
	// delivery confirmation.
	Send(ctx context.Context, msg Message) error
}
