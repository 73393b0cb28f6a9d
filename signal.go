// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// interruptListener returns a channel that is closed when the process
// receives SIGINT or SIGTERM.  Signals arriving after the first are logged so
// an operator can tell the shutdown is already in progress rather than hung.
func interruptListener(log zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigChan
		log.Info().Msgf("Received signal %s, shutting down", sig)
		close(done)

		for sig := range sigChan {
			log.Info().Msgf("Received signal %s, shutdown already in progress", sig)
		}
	}()

	return done
}
