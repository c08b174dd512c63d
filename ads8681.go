// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ads8681 samples a TI ADS8681 ADC connected via spidev with its
// chip select driven by a GPIO.
//
// The converter is configured for its bipolar ±3 × VREF range, so codes are
// offset binary centred on mid-scale, with an LSB of 375µV.
//
// Example of use:
//
//	s, err := ads8681.Open(ads8681.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	return s.Run(ctx)
package ads8681

import (
	"github.com/pkg/errors"
	"github.com/warthog618/ads8681/gpio"
	"github.com/warthog618/ads8681/spidev"
)

const (
	// MidScale is the code corresponding to 0V.
	MidScale = 0x8000

	// LSB is the voltage represented by one code.
	LSB = 0.000375
)

// Bus performs full-duplex transfers with the converter.
type Bus interface {
	Tx(w, r []byte) error
}

// ChipSelect drives the converter's chip select line.
type ChipSelect interface {
	Write(l gpio.Level) error
}

// Sample is a single conversion result.
type Sample struct {
	Raw     uint16
	Voltage float64
}

// Voltage converts a raw conversion code to volts.
func Voltage(raw uint16) float64 {
	return (float64(raw) - MidScale) * LSB
}

// ADC reads conversions from an ADS8681.
type ADC struct {
	bus Bus
	cs  ChipSelect
}

// NewADC creates an ADC using the bus and chip select.
func NewADC(bus Bus, cs ChipSelect) *ADC {
	return &ADC{bus: bus, cs: cs}
}

// Read returns the raw code of a single conversion.
//
// The chip select is held low for the duration of the transfer.
// On error the chip select is left as is and no further transfer is made.
func (adc *ADC) Read() (uint16, error) {
	if err := adc.cs.Write(gpio.Low); err != nil {
		return 0, errors.Wrap(err, "ads8681: assert chip select")
	}
	d, err := spidev.Receive(adc.bus)
	if err != nil {
		return 0, err
	}
	if err := adc.cs.Write(gpio.High); err != nil {
		return 0, errors.Wrap(err, "ads8681: release chip select")
	}
	return d, nil
}

// Sample reads a conversion and converts it to volts.
func (adc *ADC) Sample() (Sample, error) {
	raw, err := adc.Read()
	if err != nil {
		return Sample{}, err
	}
	return Sample{Raw: raw, Voltage: Voltage(raw)}, nil
}

// Transmit writes a word to the converter, framed by the chip select.
func (adc *ADC) Transmit(v uint16) error {
	if err := adc.cs.Write(gpio.Low); err != nil {
		return errors.Wrap(err, "ads8681: assert chip select")
	}
	if err := spidev.Transmit(adc.bus, v); err != nil {
		return err
	}
	return errors.Wrap(adc.cs.Write(gpio.High), "ads8681: release chip select")
}
