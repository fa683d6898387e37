// Package config holds the command line tool settings that come from the environment.
package config

import (
	"github.com/patternkit/multicsv"
	"github.com/patternkit/multicsv/pkg/env"
)

type Config struct {
	// Column is the designated column whose values are iterated.
	Column string `env:"MULTICSV_COLUMN" default:"column"`
	// Sort orders directory listings lexically instead of keeping the directory order.
	Sort bool `env:"MULTICSV_SORT" default:"false"`
	// Match filters directory listings by file name patterns.
	Match []string `env:"MULTICSV_MATCH" separator:","`
	// Verbosity is the logr V level that is still printed.
	Verbosity int `env:"MULTICSV_VERBOSITY" default:"0"`
	// BoltPath makes the sources come from a bolt table store instead of files.
	BoltPath    string `env:"MULTICSV_BOLT_PATH"`
	HistoryFile string `env:"MULTICSV_HISTORY_FILE"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Load(&c); err != nil {
		return Config{}, err
	}
	if c.Column == "" {
		c.Column = multicsv.DefaultColumn
	}
	return c, nil
}
