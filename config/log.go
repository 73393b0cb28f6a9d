// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"github.com/rs/zerolog"

	"gitlab.com/starledger/stard/corelog"
	"gitlab.com/starledger/stard/node/ledger"
)

// Subsystem identifiers used as the logger unit tag.
const (
	logUnitSTRD = "STRD"
	logUnitCHAN = "CHAN"
	logUnitRPCS = "RPCS"
)

// Log is the daemon logger.  It is reconfigured by LoadConfig and is safe to
// use from the moment the package is imported.
var Log = corelog.New(logUnitSTRD, corelog.DefaultLevel, corelog.Config{}.Default())

// RPCLog returns the logger for the RPC subsystem.
func RPCLog() zerolog.Logger { return rpcLog }

var rpcLog = corelog.Disabled

// setLogLevels rebuilds all subsystem loggers with the given level and
// logging config and hands them to the packages that keep a package-level
// logger.
func setLogLevels(logLevel string, logCfg corelog.Config) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = corelog.DefaultLevel
	}

	Log = corelog.New(logUnitSTRD, level, logCfg)
	rpcLog = corelog.New(logUnitRPCS, level, logCfg)

	ledger.UseLogger(corelog.New(logUnitCHAN, level, logCfg))
}
