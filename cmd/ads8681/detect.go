// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warthog618/ads8681/spidev"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "List the available SPI ports",
	Args:  cobra.NoArgs,
	RunE:  detect,
}

func detect(cmd *cobra.Command, args []string) error {
	pp, err := spidev.Ports()
	if err != nil {
		return err
	}
	if len(pp) == 0 {
		fmt.Println("no SPI ports found")
		return nil
	}
	for _, p := range pp {
		fmt.Printf("%s", p.Name)
		if len(p.Aliases) != 0 {
			fmt.Printf(" [%s]", strings.Join(p.Aliases, " "))
		}
		fmt.Println()
	}
	return nil
}
