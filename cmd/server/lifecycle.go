package main

import (
	"errors"
	"fmt"
	"os"

	"flightsync-service/pkg/logger"
)

var errListenerStopped = errors.New("stopped without shutdown")

// waitForStop blocks until a shutdown signal arrives or the change listener
// returns on its own. The latter means sync is dead and is reported as an error.
func waitForStop(signals <-chan os.Signal, listenerDone <-chan error, log logger.Logger) error {
	select {
	case sig := <-signals:
		log.Info("Received signal", "signal", sig.String())
		return nil
	case err := <-listenerDone:
		if err == nil {
			err = errListenerStopped
		}
		return fmt.Errorf("change listener exited: %w", err)
	}
}
