// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"gitlab.com/starledger/stard/corelog"
	"gitlab.com/starledger/stard/version"
)

const (
	defaultConfigFilename = "stard.yaml"
	defaultLogLevel       = "info"
	defaultListenAddress  = "127.0.0.1:8000"

	// defaultExpiryThreshold is the maximum age, in seconds, of a
	// challenge message at submission time.
	defaultExpiryThreshold = 300
)

// Config defines the configuration options for stard.
//
// See LoadConfig for details on the configuration load process.
type Config struct {
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file" yaml:"-"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit" yaml:"-"`

	ListenAddress   string `long:"listen" description:"Address to bind the HTTP API server to" yaml:"listen_address"`
	DataDir         string `short:"b" long:"datadir" description:"Directory to store the block archive; empty disables archiving" yaml:"data_dir"`
	DebugLevel      string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error}" yaml:"debug_level"`
	ExpiryThreshold int64  `long:"expirythreshold" description:"Challenge expiry threshold in seconds" yaml:"expiry_threshold"`

	LogConfig corelog.Config `group:"Logging" namespace:"log" yaml:"logging"`
}

// ExpiryDuration returns the challenge expiry threshold as a duration.
func (cfg *Config) ExpiryDuration() time.Duration {
	return time.Duration(cfg.ExpiryThreshold) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		ConfigFile:      defaultConfigFilename,
		ListenAddress:   defaultListenAddress,
		DebugLevel:      defaultLogLevel,
		ExpiryThreshold: defaultExpiryThreshold,
		LogConfig:       corelog.Config{}.Default(),
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := *cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	if _, err := preParser.Parse(); err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		return nil, err
	}

	if preCfg.ShowVersion {
		fmt.Printf("%s version %s\n", filepath.Base(os.Args[0]), version.GetVersion())
		os.Exit(0)
	}

	if fileExists(preCfg.ConfigFile) {
		data, err := os.ReadFile(preCfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config file: %w", err)
		}
	}

	// Parse the command line again so flags override file values.
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.ExpiryThreshold <= 0 {
		return nil, fmt.Errorf("expirythreshold must be positive, got %d", cfg.ExpiryThreshold)
	}

	setLogLevels(cfg.DebugLevel, cfg.LogConfig)

	return cfg, nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}
