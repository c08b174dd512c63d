// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

// A utility to sample an ADS8681 ADC via spidev.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/ads8681"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/physic"
)

var version = "undefined"

func init() {
	def := ads8681.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.StringP("config-file", "c", "", "configuration file (default ads8681.json)")
	pf.StringP("device", "d", def.Device, "spidev device")
	pf.Int("mode", int(def.Mode), "SPI clock polarity and phase mode")
	pf.Int("bits", def.Bits, "SPI bits per word")
	pf.Uint64("speed", uint64(def.Speed/physic.Hertz), "SPI clock frequency in Hz")
	pf.IntP("pin", "p", def.ChipSelect, "chip select GPIO number")
	pf.String("gpio-root", def.GPIORoot, "sysfs GPIO directory")
	pf.Duration("settle", def.Settle, "pause after releasing the chip select")
	pf.Duration("interval", def.Interval, "pause after printing each sample")
	pf.StringP("log-level", "l", "info", "log level [debug|info|warn|error]")
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + extendedRootHelp)
}

var rootCmd = &cobra.Command{
	Use:           "ads8681",
	Short:         "ads8681 is a utility to sample an ADS8681 ADC",
	Long:          `Repeatedly sample the ADC and print the voltage to standard output.`,
	Args:          cobra.NoArgs,
	RunE:          sample,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var extendedRootHelp = `
Configuration:
  Settings may also be provided by environment variables, e.g. ADS8681_SPI_DEVICE,
  or by a JSON configuration file. Flags override the environment, which
  overrides the configuration file.

Sampling continues until interrupted by SIGINT or SIGTERM.
`

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ads8681: %s\n", err)
		os.Exit(1)
	}
}

func sample(cmd *cobra.Command, args []string) (err error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()
	s, err := ads8681.Open(samplerConfig(cfg), ads8681.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	start := time.Now()
	err = s.Run(ctx)
	logger.Sugar().Infof("sampled for %s", time.Since(start).Round(time.Second))
	return err
}
