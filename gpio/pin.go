// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package gpio provides GPIO access through the Linux sysfs GPIO interface.
//
// Supports simple operations such as:
//   - Pin export/unexport
//   - Pin direction (input/output)
//   - Pin write (high/low)
//   - Pin read (high/low)
//
// The package intentionally does not support active low. The levels written
// and read are the levels in the value file.
//
// Example of use:
//
//	pin := gpio.NewPin(48)
//	if err := pin.Export(); err != nil {
//		return err
//	}
//	defer pin.Unexport()
//	if err := pin.Output(); err != nil {
//		return err
//	}
//	for {
//		if err := pin.Toggle(); err != nil {
//			return err
//		}
//		time.Sleep(time.Second)
//	}
//
// Pins are identified by their kernel GPIO number, e.g. GPIO1_16 on a
// BeagleBone Black is 1*32+16 = 48.
package gpio

// DefaultRoot is the directory containing the sysfs GPIO control files.
const DefaultRoot = "/sys/class/gpio"

// Pin represents a single sysfs GPIO pin.
type Pin struct {
	// Immutable fields
	pin  int
	root string
	// Mutable fields
	shadow Level
}

// Level represents the high (true) or low (false) level of a Pin.
type Level bool

// Direction defines the IO direction of a Pin.
type Direction string

// Level of pin, High / Low
const (
	Low  Level = false
	High Level = true
)

// Pin directions, as written to the direction file.
const (
	Input  Direction = "in"
	Output Direction = "out"
)

// Option modifies the construction of a Pin.
type Option func(*Pin)

// WithRoot overrides the sysfs GPIO directory, which defaults to DefaultRoot.
func WithRoot(root string) Option {
	return func(p *Pin) {
		p.root = root
	}
}

// NewPin creates a new pin object.
// The pin number provided is the kernel GPIO number.
// The pin is not exported until Export is called.
func NewPin(pin int, options ...Option) *Pin {
	p := &Pin{
		pin:  pin,
		root: DefaultRoot,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Pin returns the pin number that this Pin represents.
func (pin *Pin) Pin() int {
	return pin.pin
}

// Shadow returns the value of the last write to an output pin or the last read on an input pin.
func (pin *Pin) Shadow() Level {
	return pin.shadow
}

// Input sets pin as Input.
func (pin *Pin) Input() error {
	return pin.SetDirection(Input)
}

// Output sets pin as Output.
func (pin *Pin) Output() error {
	return pin.SetDirection(Output)
}

// High sets pin High.
func (pin *Pin) High() error {
	return pin.Write(High)
}

// Low sets pin Low.
func (pin *Pin) Low() error {
	return pin.Write(Low)
}

// Toggle pin state
func (pin *Pin) Toggle() error {
	return pin.Write(!pin.shadow)
}

// SetDirection sets the pin Direction.
func (pin *Pin) SetDirection(dir Direction) error {
	return writeFile(pin.path("direction"), string(dir))
}

// Read pin state (high/low)
func (pin *Pin) Read() (Level, error) {
	v, err := readFile(pin.path("value"))
	if err != nil {
		return Low, err
	}
	level := Low
	if v != "0" {
		level = High
	}
	pin.shadow = level
	return level, nil
}

// Write sets pin state (high/low)
func (pin *Pin) Write(level Level) error {
	v := "0"
	if level == High {
		v = "1"
	}
	if err := writeFile(pin.path("value"), v); err != nil {
		return err
	}
	pin.shadow = level
	return nil
}
