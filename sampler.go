// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ads8681

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/warthog618/ads8681/gpio"
	"github.com/warthog618/ads8681/spidev"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Sampler periodically samples the ADC and writes the voltage to its output.
type Sampler struct {
	*ADC
	settle   time.Duration
	interval time.Duration
	clock    clock.Clock
	out      io.Writer
	logger   *zap.Logger
}

// Open opens the bus and prepares the chip select described by cfg, and
// returns a Sampler using them.
//
// The Sampler owns the bus and pin, which are released by Close.
func Open(cfg Config, options ...Option) (*Sampler, error) {
	bus, err := openBus(cfg)
	if err != nil {
		return nil, err
	}
	pin := gpio.NewPin(cfg.ChipSelect, gpio.WithRoot(cfg.GPIORoot))
	if err := pin.Export(); err != nil {
		err = errors.Wrapf(err, "ads8681: export gpio%d", cfg.ChipSelect)
		return nil, multierr.Append(err, bus.Close())
	}
	if err := pin.Output(); err != nil {
		err = errors.Wrapf(err, "ads8681: set gpio%d direction", cfg.ChipSelect)
		return nil, multierr.Combine(err, pin.Unexport(), bus.Close())
	}
	options = append([]Option{WithSettle(cfg.Settle), WithInterval(cfg.Interval)}, options...)
	s := New(bus, pin, options...)
	s.logger.Info("opened",
		zap.String("device", cfg.Device),
		zap.Int("mode", int(cfg.Mode)),
		zap.Int("bits", cfg.Bits),
		zap.Stringer("speed", cfg.Speed),
		zap.Int("chip-select", cfg.ChipSelect))
	return s, nil
}

type busCloser interface {
	Bus
	io.Closer
}

var openBus = func(cfg Config) (busCloser, error) {
	d, err := spidev.Open(cfg.Device,
		spidev.WithMode(cfg.Mode),
		spidev.WithBits(cfg.Bits),
		spidev.WithSpeed(cfg.Speed))
	if err != nil {
		return nil, err
	}
	return d, nil
}

// New creates a Sampler using the provided bus and chip select.
//
// If the bus is an io.Closer, or the chip select can be unexported, then
// they are released by Close.
func New(bus Bus, cs ChipSelect, options ...Option) *Sampler {
	s := &Sampler{
		ADC:      NewADC(bus, cs),
		settle:   500 * time.Millisecond,
		interval: time.Second,
		clock:    clock.New(),
		out:      os.Stdout,
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Close unexports the chip select and closes the bus.
func (s *Sampler) Close() error {
	var err error
	if u, ok := s.cs.(interface{ Unexport() error }); ok {
		err = multierr.Append(err, u.Unexport())
	}
	if c, ok := s.bus.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	s.logger.Info("closed", zap.Error(err))
	return err
}

// Run samples until the context is done or an error occurs.
//
// Returns nil if stopped by the context.
func (s *Sampler) Run(ctx context.Context) error {
	s.logger.Info("sampling",
		zap.Duration("settle", s.settle),
		zap.Duration("interval", s.interval))
	for {
		err := s.Cycle(ctx)
		if err == nil {
			continue
		}
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			s.logger.Info("stopped")
			return nil
		}
		return err
	}
}

// Cycle performs a single sample cycle - reading the ADC, waiting for the
// settle period, writing the voltage to the output and then waiting for the
// interval.
//
// The context is only checked before the read and during the waits, so a
// read is never abandoned with the chip select asserted.
func (s *Sampler) Cycle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	smp, err := s.Sample()
	if err != nil {
		return err
	}
	if err := s.pause(ctx, s.settle); err != nil {
		return err
	}
	s.logger.Debug("sample",
		zap.Uint16("raw", smp.Raw),
		zap.Float64("voltage", smp.Voltage))
	if err := WriteSample(s.out, smp); err != nil {
		return errors.Wrap(err, "ads8681: output")
	}
	return s.pause(ctx, s.interval)
}

// WriteSample writes the voltage of the sample in the sampler output format.
func WriteSample(w io.Writer, smp Sample) error {
	_, err := fmt.Fprintf(w, "Calculated Voltage: %f \n", smp.Voltage)
	return err
}

func (s *Sampler) pause(ctx context.Context, d time.Duration) error {
	t := s.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option specifies a construction option for the Sampler.
type Option func(*Sampler)

// WithSettle sets the pause between raising the chip select and outputting
// the sample.
func WithSettle(d time.Duration) Option {
	return func(s *Sampler) {
		s.settle = d
	}
}

// WithInterval sets the pause between outputting a sample and the next read.
func WithInterval(d time.Duration) Option {
	return func(s *Sampler) {
		s.interval = d
	}
}

// WithClock sets the clock used to time the pauses.
func WithClock(c clock.Clock) Option {
	return func(s *Sampler) {
		s.clock = c
	}
}

// WithOutput sets the writer the samples are written to, which defaults to
// stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Sampler) {
		s.out = w
	}
}

// WithLogger sets the logger for lifecycle and per-sample debug events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) {
		s.logger = l
	}
}
