// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ads8681

import (
	"time"

	"github.com/warthog618/ads8681/gpio"
	"github.com/warthog618/ads8681/spidev"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Config defines the hardware connection and timing of a Sampler.
type Config struct {
	// Device is the spidev device, e.g. /dev/spidev1.0.
	Device string
	Mode   spi.Mode
	Bits   int
	Speed  physic.Frequency
	// ChipSelect is the kernel GPIO number of the chip select line.
	ChipSelect int
	// GPIORoot is the sysfs GPIO directory.
	GPIORoot string
	// Settle is the pause after the chip select is raised.
	Settle time.Duration
	// Interval is the pause after each sample is output.
	Interval time.Duration
}

// DefaultConfig returns the configuration for SPI1 CS0 on a BeagleBone
// Black, with the chip select on GPIO1_16.
func DefaultConfig() Config {
	return Config{
		Device:     "/dev/spidev1.0",
		Mode:       spidev.DefaultMode,
		Bits:       spidev.DefaultBits,
		Speed:      spidev.DefaultSpeed,
		ChipSelect: 48,
		GPIORoot:   gpio.DefaultRoot,
		Settle:     500 * time.Millisecond,
		Interval:   time.Second,
	}
}
