package pgnotify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays batches, then reports plain timeouts until the
// context ends. onWait, if set, runs before each batch is returned.
type scriptedSource struct {
	mu         sync.Mutex
	batches    [][]string
	waitErrs   []error
	connectErr error
	onWait     func(call int)
	calls      int
	closed     bool
}

func (s *scriptedSource) Connect(ctx context.Context) error { return s.connectErr }

func (s *scriptedSource) Wait(ctx context.Context, timeout time.Duration) ([]string, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	if len(s.waitErrs) > 0 {
		err := s.waitErrs[0]
		s.waitErrs = s.waitErrs[1:]
		s.mu.Unlock()
		return nil, err
	}
	if len(s.batches) > 0 {
		batch := s.batches[0]
		s.batches = s.batches[1:]
		s.mu.Unlock()
		if s.onWait != nil {
			s.onWait(call)
		}
		return batch, nil
	}
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, nil
	}
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []entity.ChangeEvent
	ctxErr []error
	delay  time.Duration
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, evt entity.ChangeEvent) error {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, evt)
	d.ctxErr = append(d.ctxErr, ctx.Err())
	return nil
}

func (d *recordingDispatcher) recorded() []entity.ChangeEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entity.ChangeEvent(nil), d.events...)
}

func newTestListener(source NotificationSource, dispatcher EventDispatcher) (*ChangeListener, *metrics.Metrics) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	l := NewChangeListener(source, dispatcher, ListenerConfig{
		WaitTimeout: 10 * time.Millisecond,
		RetryDelay:  time.Millisecond,
	}, m, logger.NewNop())
	return l, m
}

func runListener(t *testing.T, l *ChangeListener) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return cancel, done
}

func TestChangeListener_DispatchesInOrderAndDropsMalformed(t *testing.T) {
	source := &scriptedSource{batches: [][]string{
		{
			`{"table":"prices","operation":"UPDATE","record_id":101}`,
			`not json`,
			`{"table":"reviews","operation":"INSERT","record_id":3}`,
		},
		{
			`{"table":"bookings","operation":"INSERT","record_id":55}`,
		},
	}}
	dispatcher := &recordingDispatcher{}
	l, m := newTestListener(source, dispatcher)

	cancel, done := runListener(t, l)
	require.Eventually(t, func() bool { return len(dispatcher.recorded()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	events := dispatcher.recorded()
	assert.Equal(t, entity.EntityPrice, events[0].EntityType)
	assert.Equal(t, entity.OperationUpdate, events[0].Operation)
	assert.Equal(t, int64(101), events[0].RecordID)
	assert.Equal(t, entity.EntityReview, events[1].EntityType)
	assert.Equal(t, entity.EntityBooking, events[2].EntityType)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChangeEvents.WithLabelValues("unknown", "dropped")))
	assert.Equal(t, StateStopped, l.State())
	assert.True(t, source.closed)
}

func TestChangeListener_EmptyWakesKeepLooping(t *testing.T) {
	source := &scriptedSource{}
	dispatcher := &recordingDispatcher{}
	l, _ := newTestListener(source, dispatcher)

	cancel, done := runListener(t, l)
	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.calls >= 3
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after cancellation")
	}
	assert.Empty(t, dispatcher.recorded())
}

func TestChangeListener_FinishesBatchOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &scriptedSource{
		batches: [][]string{{
			`{"table":"prices","operation":"update","record_id":1}`,
			`{"table":"prices","operation":"update","record_id":2}`,
			`{"table":"prices","operation":"update","record_id":3}`,
		}},
		// shutdown arrives while the batch is being read
		onWait: func(int) { cancel() },
	}
	dispatcher := &recordingDispatcher{delay: 2 * time.Millisecond}
	l, _ := newTestListener(source, dispatcher)

	err := l.Run(ctx)

	require.NoError(t, err)
	events := dispatcher.recorded()
	require.Len(t, events, 3)
	for i, evt := range events {
		assert.Equal(t, int64(i+1), evt.RecordID)
	}
	for _, ctxErr := range dispatcher.ctxErr {
		assert.NoError(t, ctxErr)
	}
	assert.Equal(t, StateStopped, l.State())
}

func TestChangeListener_WaitErrorIsRetried(t *testing.T) {
	source := &scriptedSource{
		waitErrs: []error{errors.New("connection reset by peer")},
		batches:  [][]string{{`{"table":"reviews","operation":"update","record_id":3}`}},
	}
	dispatcher := &recordingDispatcher{}
	l, _ := newTestListener(source, dispatcher)

	cancel, done := runListener(t, l)
	require.Eventually(t, func() bool { return len(dispatcher.recorded()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestChangeListener_SubscribeFailure(t *testing.T) {
	source := &scriptedSource{connectErr: errors.New("password authentication failed")}
	l, _ := newTestListener(source, &recordingDispatcher{})

	err := l.Run(context.Background())

	assert.ErrorContains(t, err, "subscribe")
	assert.Equal(t, StateStopped, l.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "waiting", StateWaiting.String())
	assert.Equal(t, "draining", StateDraining.String())
	assert.Equal(t, "stopped", StateStopped.String())
}
