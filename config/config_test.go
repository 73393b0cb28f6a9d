// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gitlab.com/starledger/stard/corelog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, defaultListenAddress, cfg.ListenAddress)
	assert.Equal(t, defaultLogLevel, cfg.DebugLevel)
	assert.Equal(t, int64(defaultExpiryThreshold), cfg.ExpiryThreshold)
	assert.Equal(t, 300*time.Second, cfg.ExpiryDuration())
	assert.Equal(t, corelog.Config{}.Default(), cfg.LogConfig)
	assert.Empty(t, cfg.DataDir, "archiving is off by default")
}

func TestFileExists(t *testing.T) {
	assert.False(t, fileExists("does-not-exist.yaml"))
	assert.True(t, fileExists("config.go"))
}
