// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/warthog618/ads8681"
	"go.uber.org/multierr"
)

func init() {
	transmitCmd.SetHelpTemplate(transmitCmd.HelpTemplate() + extendedTransmitHelp)
	rootCmd.AddCommand(transmitCmd)
}

var transmitCmd = &cobra.Command{
	Use:     "transmit <word>",
	Short:   "Transmit a 16-bit word to the ADC",
	Args:    cobra.ExactArgs(1),
	RunE:    transmit,
	Example: "  ads8681 transmit 0xf0f0",
}

var extendedTransmitHelp = `
Words:
  Words may be decimal, or hex or octal with a 0x or 0 prefix.
  The word is sent MSB first, framed by the chip select.
`

func transmit(cmd *cobra.Command, args []string) (err error) {
	v, err := parseWord(args[0])
	if err != nil {
		return err
	}
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
	return s.Transmit(v)
}

func parseWord(arg string) (uint16, error) {
	v, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("can't parse word '%s'", arg)
	}
	return uint16(v), nil
}
