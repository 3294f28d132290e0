package provider

import "context"

// Provider delivers a rendered notification to a recipient address.
type Provider interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
}

// NoOp swallows deliveries. Used when SMTP is not configured, e.g. in
// local development and tests.
type NoOp struct{}

func (*NoOp) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}
