// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package spidev provides access to SPI devices via the Linux spidev driver.
//
// Chip select framing is left to the spidev controller, or to the caller
// when the device's chip select is wired to a GPIO.
package spidev

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Defaults applied by Open unless overridden by options.
const (
	DefaultMode  = spi.Mode0
	DefaultBits  = 8
	DefaultSpeed = physic.MegaHertz
)

// Conn performs full-duplex transfers.
//
// It is satisfied by periph's spi.Conn, and by Device.
type Conn interface {
	Tx(w, r []byte) error
}

// Device is an open and configured spidev port.
type Device struct {
	name  string
	mode  spi.Mode
	bits  int
	speed physic.Frequency
	port  spi.PortCloser
	conn  spi.Conn
}

// Open opens the named SPI port and configures its mode, word size and
// clock.
//
// The name may be the device path, e.g. /dev/spidev1.0, or the periph
// alias, e.g. SPI1.0.
func Open(name string, options ...Option) (*Device, error) {
	d := Device{
		name:  name,
		mode:  DefaultMode,
		bits:  DefaultBits,
		speed: DefaultSpeed,
	}
	for _, option := range options {
		option(&d)
	}
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "spidev: host init")
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "spidev: open %s", name)
	}
	if err := d.connect(p); err != nil {
		return nil, err
	}
	return &d, nil
}

// connect configures the port, and closes it if that fails.
func (d *Device) connect(p spi.PortCloser) error {
	c, err := p.Connect(d.speed, d.mode, d.bits)
	if err != nil {
		err = errors.Wrapf(err, "spidev: configure %s", d.name)
		return multierr.Append(err, p.Close())
	}
	d.port = p
	d.conn = c
	return nil
}

// Close releases the port.
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	d.conn = nil
	return err
}

// Name returns the name the device was opened with.
func (d *Device) Name() string {
	return d.name
}

// Tx performs a full-duplex transfer.
func (d *Device) Tx(w, r []byte) error {
	if d.conn == nil {
		return errors.Errorf("spidev: %s is closed", d.name)
	}
	return d.conn.Tx(w, r)
}

// Receive reads a 16-bit big-endian word.
//
// Zeros are clocked out while the word is read.
func Receive(c Conn) (uint16, error) {
	var w, r [2]byte
	if err := c.Tx(w[:], r[:]); err != nil {
		return 0, errors.Wrap(err, "spidev: receive")
	}
	return binary.BigEndian.Uint16(r[:]), nil
}

// Transmit writes a 16-bit word, MSB first.
//
// Bytes clocked in during the write are discarded.
func Transmit(c Conn, v uint16) error {
	var w, r [2]byte
	binary.BigEndian.PutUint16(w[:], v)
	return errors.Wrap(c.Tx(w[:], r[:]), "spidev: transmit")
}

// Option specifies a construction option for the Device.
type Option func(*Device)

// WithMode sets the clock polarity and phase mode.
func WithMode(mode spi.Mode) Option {
	return func(d *Device) {
		d.mode = mode
	}
}

// WithBits sets the number of bits per word.
func WithBits(bits int) Option {
	return func(d *Device) {
		d.bits = bits
	}
}

// WithSpeed sets the clock frequency.
func WithSpeed(f physic.Frequency) Option {
	return func(d *Device) {
		d.speed = f
	}
}
