package main

import (
	"errors"
	"os"
	"syscall"
	"testing"

	"flightsync-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForStop_Signal(t *testing.T) {
	signals := make(chan os.Signal, 1)
	listenerDone := make(chan error, 1)
	signals <- syscall.SIGTERM

	assert.NoError(t, waitForStop(signals, listenerDone, logger.NewNop()))
}

func TestWaitForStop_SubscribeFailureIsFatal(t *testing.T) {
	signals := make(chan os.Signal, 1)
	listenerDone := make(chan error, 1)
	subscribeErr := errors.New("subscribe: listen on mongodb_sync: connection refused")
	listenerDone <- subscribeErr

	err := waitForStop(signals, listenerDone, logger.NewNop())

	require.Error(t, err)
	assert.ErrorIs(t, err, subscribeErr)
}

func TestWaitForStop_ListenerReturnedEarly(t *testing.T) {
	signals := make(chan os.Signal, 1)
	listenerDone := make(chan error, 1)
	listenerDone <- nil

	err := waitForStop(signals, listenerDone, logger.NewNop())

	assert.ErrorIs(t, err, errListenerStopped)
}
