// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"gitlab.com/starledger/stard/config"
	"gitlab.com/starledger/stard/node"
	"gitlab.com/starledger/stard/version"
)

func main() {
	// Work around defer not working after os.Exit()
	if err := stardMain(); err != nil {
		fmt.Println("FATAL:", err)
		os.Exit(1)
	}
}

// stardMain is the real main function for stard.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func stardMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	defer config.Log.Info().Msg("Shutdown complete")

	// Show version at startup.
	config.Log.Info().Msgf("Version %s", version.GetVersion())

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := interruptListener(config.Log.With().Str("ctx", "interruptListener").Logger())
	go func() {
		<-sigChan
		config.Log.Info().Msg("propagate stop signal")
		cancel()
	}()

	controller := node.Controller(config.Log.With().Str("ctx", "NodeController").Logger())
	nodeCfg := &node.Config{
		ListenAddress:   cfg.ListenAddress,
		DataDir:         cfg.DataDir,
		ExpiryThreshold: cfg.ExpiryDuration(),
		RPCLogger:       config.RPCLog(),
	}
	if err := controller.Run(ctx, nodeCfg); err != nil {
		config.Log.Error().Err(err).Msg("Can't run node")
		os.Exit(2)
	}

	return nil
}
