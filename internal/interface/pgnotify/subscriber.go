package pgnotify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightsync-service/pkg/logger"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultDrainWindow   = 50 * time.Millisecond
	defaultMaxRetryDelay = 30 * time.Second
	defaultRetryBudget   = 2 * time.Minute
)

// Subscriber holds a dedicated connection LISTENing on one channel.
// It is used by a single goroutine.
type Subscriber struct {
	dsn         string
	channel     string
	drainWindow time.Duration
	retryBudget time.Duration
	logger      logger.Logger
	conn        *pgx.Conn
}

// NewSubscriber creates a subscriber; call Connect before Wait
func NewSubscriber(dsn, channel string, logger logger.Logger) *Subscriber {
	return &Subscriber{
		dsn:         dsn,
		channel:     channel,
		drainWindow: defaultDrainWindow,
		retryBudget: defaultRetryBudget,
		logger:      logger.With("component", "pg_subscriber", "channel", channel),
	}
}

// Connect opens the connection and issues LISTEN, retrying with exponential
// backoff until it succeeds, ctx ends or the retry budget runs out.
func (s *Subscriber) Connect(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = defaultMaxRetryDelay

	conn, err := backoff.Retry(ctx, func() (*pgx.Conn, error) {
		return s.dial(ctx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(s.retryBudget),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.Warn("LISTEN failed, retrying", "error", err, "retryIn", next.String())
		}),
	)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.channel, err)
	}

	s.conn = conn
	s.logger.Info("Listening for change notifications")
	return nil
}

func (s *Subscriber) dial(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return conn, nil
}

// Wait blocks up to timeout for a notification, then drains whatever else is
// already pending. It returns payloads in arrival order; an empty result with
// a nil error is a plain timeout.
func (s *Subscriber) Wait(ctx context.Context, timeout time.Duration) ([]string, error) {
	if s.conn == nil || s.conn.IsClosed() {
		if err := s.Connect(ctx); err != nil {
			return nil, err
		}
	}

	first, err := s.next(ctx, timeout)
	if err != nil || first == nil {
		return nil, err
	}

	payloads := []string{first.Payload}
	for {
		n, err := s.next(ctx, s.drainWindow)
		if err != nil {
			// keep what was already read; the next Wait reconnects
			s.logger.Warn("Drain interrupted", "error", err, "drained", len(payloads))
			break
		}
		if n == nil {
			break
		}
		payloads = append(payloads, n.Payload)
	}
	return payloads, nil
}

// next returns nil, nil when the window passes without a notification
func (s *Subscriber) next(ctx context.Context, window time.Duration) (*pgconn.Notification, error) {
	waitCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	n, err := s.conn.WaitForNotification(waitCtx)
	if err == nil {
		return n, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return nil, nil
	}

	s.closeConn()
	return nil, fmt.Errorf("wait for notification: %w", err)
}

func (s *Subscriber) closeConn() {
	if s.conn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.conn.Close(ctx)
	s.conn = nil
}

// Close releases the connection
func (s *Subscriber) Close() error {
	s.closeConn()
	s.logger.Info("Subscriber closed")
	return nil
}
