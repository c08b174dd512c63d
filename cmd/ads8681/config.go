// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/ads8681"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"config-file": "config.file",
	"device":      "spi.device",
	"mode":        "spi.mode",
	"bits":        "spi.bits",
	"speed":       "spi.speed",
	"pin":         "gpio.pin",
	"gpio-root":   "gpio.root",
	"settle":      "sample.settle",
	"interval":    "sample.interval",
	"log-level":   "log.level",
}

func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg := loadConfig(cmd.Flags())
	logger, err := newLogger(cfg.MustGet("log.level").String())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func defaults() map[string]interface{} {
	def := ads8681.DefaultConfig()
	return map[string]interface{}{
		"spi": map[string]interface{}{
			"device": def.Device,
			"mode":   int(def.Mode),
			"bits":   def.Bits,
			"speed":  uint64(def.Speed / physic.Hertz),
		},
		"gpio": map[string]interface{}{
			"pin":  def.ChipSelect,
			"root": def.GPIORoot,
		},
		"sample": map[string]interface{}{
			"settle":   def.Settle.String(),
			"interval": def.Interval.String(),
		},
		"log": map[string]interface{}{
			"level": "info",
		},
	}
}

func loadConfig(flags *pflag.FlagSet) *config.Config {
	def := dict.New(dict.WithMap(defaults()))
	fget := dict.New(dict.WithMap(flagOverrides(flags)))
	// highest priority sources first - flags override environment
	cfg := config.New(fget, config.WithDefault(def))
	cfg.Append(env.New(env.WithEnvPrefix("ADS8681_")))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "ads8681.json", json.NewDecoder()))
	return cfg
}

// flagOverrides returns the flags explicitly set on the command line as a
// config tree.
func flagOverrides(flags *pflag.FlagSet) map[string]interface{} {
	m := map[string]interface{}{}
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			insert(m, key, f.Value.String())
		}
	})
	return m
}

// insert adds the value to the tree at the dot separated key.
func insert(m map[string]interface{}, key string, v interface{}) {
	path := strings.Split(key, ".")
	for _, k := range path[:len(path)-1] {
		n, ok := m[k].(map[string]interface{})
		if !ok {
			n = map[string]interface{}{}
			m[k] = n
		}
		m = n
	}
	m[path[len(path)-1]] = v
}

func samplerConfig(cfg *config.Config) ads8681.Config {
	return ads8681.Config{
		Device:     cfg.MustGet("spi.device").String(),
		Mode:       spi.Mode(cfg.MustGet("spi.mode").Int()),
		Bits:       int(cfg.MustGet("spi.bits").Int()),
		Speed:      physic.Frequency(cfg.MustGet("spi.speed").Uint()) * physic.Hertz,
		ChipSelect: int(cfg.MustGet("gpio.pin").Int()),
		GPIORoot:   cfg.MustGet("gpio.root").String(),
		Settle:     cfg.MustGet("sample.settle").Duration(),
		Interval:   cfg.MustGet("sample.interval").Duration(),
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}
