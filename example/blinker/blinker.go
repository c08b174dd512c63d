// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warthog618/ads8681/gpio"
)

// This example drives GPIO 48, the default ADS8681 chip select, which is
// P9_15 on a BeagleBone Black.
// The pin is toggled high and low at 1Hz with a 50% duty cycle, which is
// useful for checking the chip select wiring with a scope or LED.
// Do not run this on a board which has this pin externally driven.
func main() {
	pin := gpio.NewPin(48)
	if err := pin.Export(); err != nil {
		fmt.Fprintf(os.Stderr, "blinker: %s\n", err)
		os.Exit(1)
	}
	defer pin.Unexport()
	defer pin.Input()
	if err := pin.Output(); err != nil {
		fmt.Fprintf(os.Stderr, "blinker: %s\n", err)
		return
	}
	// capture exit signals to ensure pin is reverted to input on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	for {
		select {
		case <-time.After(500 * time.Millisecond):
			if err := pin.Toggle(); err != nil {
				fmt.Fprintf(os.Stderr, "blinker: %s\n", err)
				return
			}
			fmt.Println("Toggled", pin.Shadow())
		case <-quit:
			return
		}
	}
}
