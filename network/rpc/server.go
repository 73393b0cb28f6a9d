// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc exposes the ledger operations over a JSON HTTP API.  It is a
// thin transport: all rules live in the ledger and verification packages.
package rpc

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"gitlab.com/starledger/stard/node/ledger"
	"gitlab.com/starledger/stard/node/verification"
)

// Config is a descriptor which specifies the RPC server configuration.
type Config struct {
	// ListenAddress is the host:port the HTTP server binds to.
	ListenAddress string

	// ShutdownTimeout bounds the graceful shutdown on context
	// cancellation.
	ShutdownTimeout time.Duration
}

// Server serves the star registry HTTP API.
type Server struct {
	cfg    *Config
	logger zerolog.Logger

	chain *ledger.Chain
	flow  *verification.Flow
}

// NewServer returns a Server instance using the provided configuration
// details.
func NewServer(cfg *Config, logger zerolog.Logger, chain *ledger.Chain, flow *verification.Flow) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		chain:  chain,
		flow:   flow,
	}
}

// Router builds the route table.  It is exported so tests can drive the
// handlers through httptest without binding a socket.
func (server *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(server.logRequest)

	router.HandleFunc("/chain", server.handleInitializeChain).Methods(http.MethodPost)
	router.HandleFunc("/chain/height", server.handleChainHeight).Methods(http.MethodGet)
	router.HandleFunc("/chain/validate", server.handleValidateChain).Methods(http.MethodGet)
	router.HandleFunc("/requestValidation", server.handleRequestValidation).Methods(http.MethodPost)
	router.HandleFunc("/submitStar", server.handleSubmitStar).Methods(http.MethodPost)
	router.HandleFunc("/block/height/{height}", server.handleBlockByHeight).Methods(http.MethodGet)
	router.HandleFunc("/block/hash/{hash}", server.handleBlockByHash).Methods(http.MethodGet)
	router.HandleFunc("/stars/{address}", server.handleStarsByAddress).Methods(http.MethodGet)

	return router
}

// Run starts the HTTP server and blocks until the context is canceled or the
// listener fails.
func (server *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    server.cfg.ListenAddress,
		Handler: server.Router(),
	}

	listenErr := make(chan error, 1)
	go func() {
		server.logger.Info().Msgf("RPC server listening on %s", server.cfg.ListenAddress)
		listenErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	timeout := server.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	server.logger.Info().Msg("RPC server shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

// logRequest is a mux middleware that logs every request with its timing.
func (server *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		server.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("handled request")
	})
}
