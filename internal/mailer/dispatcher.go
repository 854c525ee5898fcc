// AngelaMos | 2026
// dispatcher.go

package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher sends in the background so mail delivery never sits on a
// request path. Failures are logged and dropped; every notification in
// this system is advisory.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(
	sender Sender,
	logger *slog.Logger,
	timeout time.Duration,
) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: timeout,
	}
}

// Enqueue sends asynchronously with a detached context, so a finished
// HTTP request cannot cancel an in-flight delivery.
func (d *Dispatcher) Enqueue(to, subject, htmlBody string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, to, subject, htmlBody); err != nil {
			d.logger.Error("mail delivery failed",
				slog.String("to", to),
				slog.String("subject", subject),
				slog.String("error", err.Error()),
			)
			return
		}

		d.logger.Info("mail delivered",
			slog.String("to", to),
			slog.String("subject", subject),
		)
	}()
}

// Wait blocks until in-flight sends finish. Called during shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
