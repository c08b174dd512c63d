// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warthog618/ads8681"
	"go.uber.org/multierr"
)

func init() {
	readCmd.Flags().BoolVarP(&readOpts.Raw, "raw", "r", false, "also display the raw conversion code")
	rootCmd.AddCommand(readCmd)
}

var (
	readCmd = &cobra.Command{
		Use:   "read",
		Short: "Read a single sample",
		Args:  cobra.NoArgs,
		RunE:  read,
	}
	readOpts = struct {
		Raw bool
	}{}
)

func read(cmd *cobra.Command, args []string) (err error) {
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
	smp, err := s.Sample()
	if err != nil {
		return err
	}
	if readOpts.Raw {
		fmt.Printf("Raw: 0x%04x\n", smp.Raw)
	}
	return ads8681.WriteSample(os.Stdout, smp)
}
