// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ads8681_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/ads8681"
	"github.com/warthog618/ads8681/gpio"
	"go.uber.org/zap/zaptest"
)

// recorder logs the operations on the mocks, in order.
type recorder struct {
	events []string
}

func (r *recorder) add(e string) {
	r.events = append(r.events, e)
}

type mockPin struct {
	rec         *recorder
	errs        map[gpio.Level]error
	unexported  bool
	unexportErr error
}

func (p *mockPin) Write(l gpio.Level) error {
	if l == gpio.High {
		p.rec.add("high")
	} else {
		p.rec.add("low")
	}
	return p.errs[l]
}

func (p *mockPin) Unexport() error {
	p.unexported = true
	return p.unexportErr
}

type mockBus struct {
	rec *recorder
	r   []byte
	w   [][]byte
	// fail the nth and subsequent transfers, if non-zero.
	failAt   int
	count    int
	err      error
	closed   bool
	closeErr error
	reads    chan struct{}
}

func (b *mockBus) Tx(w, r []byte) error {
	b.rec.add("read")
	b.count++
	b.w = append(b.w, append([]byte(nil), w...))
	if b.reads != nil {
		b.reads <- struct{}{}
	}
	if b.failAt != 0 && b.count >= b.failAt {
		return b.err
	}
	copy(r, b.r)
	return nil
}

func (b *mockBus) Close() error {
	b.closed = true
	return b.closeErr
}

// recordingClock records the pauses requested, and returns immediately.
type recordingClock struct {
	clock.Clock
	rec *recorder
}

func (c recordingClock) Timer(d time.Duration) *clock.Timer {
	c.rec.add("pause " + d.String())
	return c.Clock.Timer(0)
}

func newMocks(r []byte) (*recorder, *mockPin, *mockBus) {
	rec := &recorder{}
	return rec, &mockPin{rec: rec}, &mockBus{rec: rec, r: r}
}

func TestVoltage(t *testing.T) {
	patterns := []struct {
		name string
		raw  uint16
		v    float64
	}{
		{"midscale", 32768, 0},
		{"zero", 0, -12.288},
		{"fullscale", 65535, 12.287625},
		{"one lsb", 32769, 0.000375},
		{"minus one lsb", 32767, -0.000375},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.InDelta(t, p.v, ads8681.Voltage(p.raw), 1e-9)
		}
		t.Run(p.name, tf)
	}
}

func TestVoltageMonotonic(t *testing.T) {
	prev := ads8681.Voltage(0)
	for raw := 1; raw <= 0xffff; raw++ {
		v := ads8681.Voltage(uint16(raw))
		require.Greater(t, v, prev, raw)
		prev = v
	}
}

func TestRead(t *testing.T) {
	rec, pin, bus := newMocks([]byte{0x80, 0x00})
	adc := ads8681.NewADC(bus, pin)
	raw, err := adc.Read()
	require.Nil(t, err)
	assert.Equal(t, uint16(0x8000), raw)
	assert.Equal(t, []string{"low", "read", "high"}, rec.events)
	assert.Equal(t, [][]byte{{0, 0}}, bus.w)
}

func TestReadFailures(t *testing.T) {
	errFail := errors.New("fail")
	patterns := []struct {
		name   string
		setup  func(*mockPin, *mockBus)
		events []string
	}{
		{
			"low",
			func(p *mockPin, b *mockBus) { p.errs = map[gpio.Level]error{gpio.Low: errFail} },
			[]string{"low"},
		},
		{
			"read",
			func(p *mockPin, b *mockBus) { b.failAt, b.err = 1, errFail },
			[]string{"low", "read"},
		},
		{
			"high",
			func(p *mockPin, b *mockBus) { p.errs = map[gpio.Level]error{gpio.High: errFail} },
			[]string{"low", "read", "high"},
		},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			rec, pin, bus := newMocks([]byte{0x12, 0x34})
			p.setup(pin, bus)
			adc := ads8681.NewADC(bus, pin)
			raw, err := adc.Read()
			assert.ErrorIs(t, err, errFail)
			assert.Equal(t, uint16(0), raw)
			assert.Equal(t, p.events, rec.events)
		}
		t.Run(p.name, tf)
	}
}

func TestSample(t *testing.T) {
	_, pin, bus := newMocks([]byte{0x00, 0x00})
	adc := ads8681.NewADC(bus, pin)
	smp, err := adc.Sample()
	require.Nil(t, err)
	assert.Equal(t, uint16(0), smp.Raw)
	assert.InDelta(t, -12.288, smp.Voltage, 1e-9)
}

func TestTransmit(t *testing.T) {
	rec, pin, bus := newMocks([]byte{0xff, 0xff})
	adc := ads8681.NewADC(bus, pin)
	require.Nil(t, adc.Transmit(0xf0f0))
	assert.Equal(t, []string{"low", "read", "high"}, rec.events)
	assert.Equal(t, [][]byte{{0xf0, 0xf0}}, bus.w)
}

func TestWriteSample(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, ads8681.WriteSample(&buf, ads8681.Sample{Voltage: 1.5}))
	assert.Equal(t, "Calculated Voltage: 1.500000 \n", buf.String())
}

func TestCycle(t *testing.T) {
	rec, pin, bus := newMocks([]byte{0x80, 0x00})
	var buf bytes.Buffer
	s := ads8681.New(bus, pin,
		ads8681.WithClock(recordingClock{clock.New(), rec}),
		ads8681.WithOutput(&buf),
		ads8681.WithLogger(zaptest.NewLogger(t)))
	require.Nil(t, s.Cycle(context.Background()))
	assert.Equal(t, []string{"low", "read", "high", "pause 500ms", "pause 1s"}, rec.events)
	assert.Equal(t, "Calculated Voltage: 0.000000 \n", buf.String())
}

func TestCycleOptions(t *testing.T) {
	rec, pin, bus := newMocks([]byte{0x00, 0x00})
	var buf bytes.Buffer
	s := ads8681.New(bus, pin,
		ads8681.WithClock(recordingClock{clock.New(), rec}),
		ads8681.WithOutput(&buf),
		ads8681.WithSettle(time.Millisecond),
		ads8681.WithInterval(2*time.Millisecond))
	require.Nil(t, s.Cycle(context.Background()))
	assert.Equal(t, []string{"low", "read", "high", "pause 1ms", "pause 2ms"}, rec.events)
	assert.Equal(t, "Calculated Voltage: -12.288000 \n", buf.String())
}

func TestCycleError(t *testing.T) {
	errFail := errors.New("fail")
	rec, pin, bus := newMocks([]byte{0x80, 0x00})
	bus.failAt, bus.err = 1, errFail
	var buf bytes.Buffer
	s := ads8681.New(bus, pin,
		ads8681.WithClock(recordingClock{clock.New(), rec}),
		ads8681.WithOutput(&buf))
	assert.ErrorIs(t, s.Cycle(context.Background()), errFail)
	assert.Equal(t, []string{"low", "read"}, rec.events)
	assert.Empty(t, buf.String())
}

func TestCycleCancelled(t *testing.T) {
	rec, pin, bus := newMocks([]byte{0x80, 0x00})
	s := ads8681.New(bus, pin, ads8681.WithClock(recordingClock{clock.New(), rec}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Cycle(ctx), context.Canceled)
	assert.Empty(t, rec.events)
}

func TestRunError(t *testing.T) {
	errFail := errors.New("fail")
	rec, pin, bus := newMocks([]byte{0x80, 0x01})
	bus.failAt, bus.err = 3, errFail
	var buf bytes.Buffer
	s := ads8681.New(bus, pin,
		ads8681.WithClock(recordingClock{clock.New(), rec}),
		ads8681.WithOutput(&buf),
		ads8681.WithLogger(zaptest.NewLogger(t)))
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, errFail)
	cycle := []string{"low", "read", "high", "pause 500ms", "pause 1s"}
	expected := append(append(append([]string(nil), cycle...), cycle...), "low", "read")
	assert.Equal(t, expected, rec.events)
	line := "Calculated Voltage: 0.000375 \n"
	assert.Equal(t, line+line, buf.String())
}

func TestRunCancel(t *testing.T) {
	_, pin, bus := newMocks([]byte{0x80, 0x00})
	bus.reads = make(chan struct{}, 1)
	var buf bytes.Buffer
	// mock clock is never advanced, so Run blocks in the settle pause.
	s := ads8681.New(bus, pin,
		ads8681.WithClock(clock.NewMock()),
		ads8681.WithOutput(&buf),
		ads8681.WithLogger(zaptest.NewLogger(t)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	select {
	case <-bus.reads:
	case <-time.After(time.Second):
		t.Fatal("no read")
	}
	cancel()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.Empty(t, buf.String())
	assert.Equal(t, 1, bus.count)
}

func TestClose(t *testing.T) {
	_, pin, bus := newMocks(nil)
	s := ads8681.New(bus, pin)
	assert.Nil(t, s.Close())
	assert.True(t, pin.unexported)
	assert.True(t, bus.closed)
}

func TestCloseErrors(t *testing.T) {
	errUnexport := errors.New("unexport")
	errClose := errors.New("close")
	_, pin, bus := newMocks(nil)
	pin.unexportErr = errUnexport
	bus.closeErr = errClose
	s := ads8681.New(bus, pin)
	err := s.Close()
	assert.ErrorIs(t, err, errUnexport)
	assert.ErrorIs(t, err, errClose)
	assert.True(t, bus.closed)
}

type plainPin struct{}

func (plainPin) Write(gpio.Level) error { return nil }

type plainBus struct{}

func (plainBus) Tx(w, r []byte) error { return nil }

func TestCloseNoRelease(t *testing.T) {
	s := ads8681.New(plainBus{}, plainPin{})
	assert.Nil(t, s.Close())
}

func TestDefaultConfig(t *testing.T) {
	cfg := ads8681.DefaultConfig()
	assert.Equal(t, "/dev/spidev1.0", cfg.Device)
	assert.Equal(t, 8, cfg.Bits)
	assert.Equal(t, 48, cfg.ChipSelect)
	assert.Equal(t, gpio.DefaultRoot, cfg.GPIORoot)
	assert.Equal(t, 500*time.Millisecond, cfg.Settle)
	assert.Equal(t, time.Second, cfg.Interval)
}
