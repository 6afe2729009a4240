package notify

import "context"

// Notifier is the outbound notification port. Transport failures are returned
// as ordinary errors; the caller decides whether they matter.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Noop discards notifications. Used when no transport is configured.
type Noop struct{}

func (Noop) Send(ctx context.Context, subject, body string) error {
	return nil
}
