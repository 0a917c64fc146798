// Package notify formats and delivers event notifications with a
// classified retry policy.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/easonliu714/ShowNews/pkg/logger"
	"github.com/easonliu714/ShowNews/pkg/metrics"
)

const defaultMaxAttempts = 3

// Backoff schedule constants, in seconds.
const (
	floodWaitStep   = 60
	floodWaitCap    = 300
	networkWaitStep = 15
	defaultWait     = 5
)

// Sender delivers a single rendered message to the channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// failureKind partitions send errors for the retry policy.
type failureKind int

const (
	failOther failureKind = iota
	failPermanent
	failFlood
	failNetwork
)

// Dispatcher wraps a Sender with the retry/backoff policy. Failures
// are classified per attempt: over-length messages are permanent,
// rate limits escalate linearly with a cap, network errors escalate
// linearly, and everything else waits a short fixed delay.
type Dispatcher struct {
	sender      Sender
	logger      logger.Logger
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMaxAttempts sets the retry ceiling per message.
func WithMaxAttempts(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

// WithSleeper replaces the inter-attempt wait, used by tests.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.sleep = fn
		}
	}
}

// NewDispatcher creates a Dispatcher around the given sender.
func NewDispatcher(sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		maxAttempts: defaultMaxAttempts,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends text, retrying per the failure classification until
// success, a permanent failure, or the attempt ceiling.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) error {
	var lastErr error
	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		start := time.Now()
		err := d.sender.Send(ctx, text)
		if err == nil {
			metrics.RecordSendLatency(float64(time.Since(start).Milliseconds()))
			return nil
		}
		lastErr = err

		kind := classify(err)
		if kind == failPermanent {
			return fmt.Errorf("%w: %w", ErrMessageTooLong, err)
		}

		wait := waitFor(kind, attempt)
		d.logRetry(ctx, attempt, wait, err)
		metrics.RecordSendRetry()

		if attempt == d.maxAttempts-1 {
			break
		}
		if err := d.sleep(ctx, wait); err != nil {
			return fmt.Errorf("%w: %w", ErrSendFailed, err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrSendFailed, d.maxAttempts, lastErr)
}

func (d *Dispatcher) logRetry(ctx context.Context, attempt int, wait time.Duration, err error) {
	if d.logger == nil {
		return
	}
	d.logger.Warn(ctx, "send attempt failed",
		logger.Int("attempt", attempt+1),
		logger.String("wait", wait.String()),
		logger.Error(err))
}

// classify buckets a send error for the retry policy.
func classify(err error) failureKind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "message is too long"):
		return failPermanent
	case strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "retry after"),
		strings.Contains(msg, "429"):
		return failFlood
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection") {
		return failNetwork
	}
	return failOther
}

// waitFor returns the delay before the next attempt. attempt is
// zero-based.
func waitFor(kind failureKind, attempt int) time.Duration {
	switch kind {
	case failFlood:
		secs := floodWaitStep * (attempt + 1)
		if secs > floodWaitCap {
			secs = floodWaitCap
		}
		return time.Duration(secs) * time.Second
	case failNetwork:
		return time.Duration(networkWaitStep*(attempt+1)) * time.Second
	default:
		return defaultWait * time.Second
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
