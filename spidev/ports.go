// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package spidev

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Port describes an SPI port known to the host.
type Port struct {
	Name    string
	Number  int
	Aliases []string
}

// Ports returns the SPI ports registered by the host drivers.
func Ports() ([]Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "spidev: host init")
	}
	refs := spireg.All()
	pp := make([]Port, 0, len(refs))
	for _, ref := range refs {
		pp = append(pp, Port{
			Name:    ref.Name,
			Number:  ref.Number,
			Aliases: ref.Aliases,
		})
	}
	return pp, nil
}
