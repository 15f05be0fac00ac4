package pgnotify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/usecase"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"
)

// State is the listener's position in its wait/drain cycle
type State int32

const (
	StateIdle State = iota
	StateWaiting
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// NotificationSource delivers raw notification payloads
type NotificationSource interface {
	Connect(ctx context.Context) error
	Wait(ctx context.Context, timeout time.Duration) ([]string, error)
	Close() error
}

// EventDispatcher applies a decoded change event
type EventDispatcher interface {
	Dispatch(ctx context.Context, evt entity.ChangeEvent) error
}

// ListenerConfig tunes the wait loop
type ListenerConfig struct {
	// WaitTimeout bounds each blocking wait; shutdown is observed at
	// least this often.
	WaitTimeout time.Duration
	// EventTimeout bounds the handling of one event.
	EventTimeout time.Duration
	// RetryDelay is the pause after a failed wait.
	RetryDelay time.Duration
}

// ChangeListener consumes change notifications on a single goroutine and
// applies them in arrival order, one at a time.
type ChangeListener struct {
	source     NotificationSource
	dispatcher EventDispatcher
	config     ListenerConfig
	metrics    *metrics.Metrics
	logger     logger.Logger
	state      atomic.Int32
	now        func() time.Time
}

// NewChangeListener creates a new change listener
func NewChangeListener(
	source NotificationSource,
	dispatcher EventDispatcher,
	config ListenerConfig,
	m *metrics.Metrics,
	logger logger.Logger,
) *ChangeListener {
	if config.WaitTimeout <= 0 {
		config.WaitTimeout = 5 * time.Second
	}
	if config.EventTimeout <= 0 {
		config.EventTimeout = 30 * time.Second
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	return &ChangeListener{
		source:     source,
		dispatcher: dispatcher,
		config:     config,
		metrics:    m,
		logger:     logger.With("component", "change_listener"),
		now:        time.Now,
	}
}

// State reports the current loop state
func (l *ChangeListener) State() State {
	return State(l.state.Load())
}

func (l *ChangeListener) setState(s State) {
	l.state.Store(int32(s))
}

// Run subscribes and consumes notifications until ctx is cancelled. A batch
// already read when cancellation arrives is applied in full before Run
// returns. Only a failed initial subscription is returned as an error.
func (l *ChangeListener) Run(ctx context.Context) error {
	if err := l.source.Connect(ctx); err != nil {
		l.setState(StateStopped)
		return fmt.Errorf("subscribe: %w", err)
	}
	defer l.source.Close()

	l.logger.Info("Change listener started", "waitTimeout", l.config.WaitTimeout.String())

	for {
		if ctx.Err() != nil {
			l.setState(StateStopped)
			l.logger.Info("Change listener stopped")
			return nil
		}

		l.setState(StateWaiting)
		payloads, err := l.source.Wait(ctx, l.config.WaitTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			l.logger.Error("Waiting for notifications failed", "error", err)
			l.setState(StateIdle)
			l.pause(ctx)
			continue
		}

		if len(payloads) > 0 {
			l.setState(StateDraining)
			l.drain(ctx, payloads)
		}
		l.setState(StateIdle)
	}
}

func (l *ChangeListener) pause(ctx context.Context) {
	t := time.NewTimer(l.config.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// drain applies a batch in order. Work runs detached from ctx so that a
// shutdown does not cut a batch in half.
func (l *ChangeListener) drain(ctx context.Context, payloads []string) {
	workCtx := context.WithoutCancel(ctx)
	for _, payload := range payloads {
		l.handle(workCtx, payload)
	}
}

func (l *ChangeListener) handle(ctx context.Context, payload string) {
	evt, err := entity.DecodeChangeEvent(payload, l.now())
	if err != nil {
		l.logger.Warn("Dropping malformed notification", "error", err)
		l.metrics.ChangeEvents.WithLabelValues("unknown", usecase.ResultDropped).Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.EventTimeout)
	defer cancel()

	// Dispatch logs and counts its own failures
	_ = l.dispatcher.Dispatch(ctx, evt)
}
