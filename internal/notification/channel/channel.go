// Package channel holds the outbound delivery transports. Senders report
// per-send outcomes; they never decide whether a send should happen, that is
// the dispatcher's call.
package channel

import "context"

// Result is the outcome of one send attempt on one channel.
type Result struct {
	Success bool
	Err     error
}

// EmailSender delivers one rendered email to one address.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) Result
}

// SMSSender delivers one short text to one phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, title, body string) Result
}
