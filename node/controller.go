// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"gitlab.com/starledger/stard/database"
	"gitlab.com/starledger/stard/network/rpc"
	"gitlab.com/starledger/stard/node/ledger"
	"gitlab.com/starledger/stard/node/verification"
)

// blockArchiveDirname is the subdirectory of the data dir holding the block
// archive.
const blockArchiveDirname = "blocks"

// Config carries the settings the controller needs to assemble the node.
type Config struct {
	// ListenAddress is the bind address of the HTTP API.
	ListenAddress string

	// DataDir enables the badger block archive when non-empty.
	DataDir string

	// ExpiryThreshold is the challenge expiry window.
	ExpiryThreshold time.Duration

	// RPCLogger is the logger handed to the RPC server.
	RPCLogger zerolog.Logger
}

type chainController struct {
	logger zerolog.Logger
	cfg    *Config

	chain   *ledger.Chain
	flow    *verification.Flow
	rpc     *rpc.Server
	archive *database.BlockArchive
}

// Controller creates the node controller which wires the chain, the
// verification flow, the block archive and the RPC server together.
func Controller(logger zerolog.Logger) *chainController {
	return &chainController{logger: logger}
}

// Run assembles the node from cfg and serves until ctx is canceled.
func (ctl *chainController) Run(ctx context.Context, cfg *Config) error {
	ctl.cfg = cfg

	chainCfg := &ledger.Config{TimeSource: ledger.SystemTimeSource()}

	if cfg.DataDir != "" {
		archivePath := filepath.Join(cfg.DataDir, blockArchiveDirname)
		archive, err := database.OpenBlockArchive(archivePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := archive.Close(); err != nil {
				ctl.logger.Error().Err(err).Msg("unable to close block archive")
			}
		}()

		ctl.logger.Info().Msgf("Block archive enabled at %s", archivePath)
		ctl.archive = archive
		chainCfg.IndexManager = archive
	}

	chain, err := ledger.New(chainCfg)
	if err != nil {
		return err
	}
	if err := chain.Initialize(); err != nil {
		return err
	}
	ctl.chain = chain

	flow, err := verification.New(&verification.Config{
		Chain:      chain,
		TimeSource: ledger.SystemTimeSource(),
		Threshold:  cfg.ExpiryThreshold,
	})
	if err != nil {
		return err
	}
	ctl.flow = flow

	ctl.logger.Info().Msgf("Chain state (height %d)", chain.Height())

	ctl.rpc = rpc.NewServer(
		&rpc.Config{ListenAddress: cfg.ListenAddress},
		cfg.RPCLogger,
		chain,
		flow,
	)
	return ctl.rpc.Run(ctx)
}
