// services/hal/internal/platform/factories_linux.go
//go:build linux && !(rp2040 || rp2350)

package platform

import (
	"strconv"
	"sync"

	"ltc690x-go/errcode"
	"ltc690x-go/services/hal/internal/core"
	"ltc690x-go/services/hal/internal/platform/setups"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// Open initialises periph host drivers and returns factories backed by
// /dev/i2c-* and the kernel GPIO character devices. Buses are opened lazily
// on first use.
func Open(plan setups.ResourcePlan) (I2CBusFactory, PinFactory, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, errcode.Wrap(errcode.Unavailable, "host.Init", err)
	}
	return &linuxI2CFactory{plan: plan, open: map[string]i2c.BusCloser{}}, &linuxPinFactory{}, nil
}

// ----------------------------- I²C (periph) ----------------------------------

type linuxI2CFactory struct {
	mu   sync.Mutex
	plan setups.ResourcePlan
	open map[string]i2c.BusCloser
}

// i2c.Bus already has the drivers.I2C shape.
var _ drivers.I2C = i2c.Bus(nil)

func (f *linuxI2CFactory) ByID(id string) (drivers.I2C, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.open[id]; ok {
		return b, true
	}
	p, ok := f.plan.ByID(id)
	if !ok {
		return nil, false
	}
	b, err := i2creg.Open(p.Dev)
	if err != nil {
		println("[platform] i2c open failed:", id, p.Dev, err.Error())
		return nil, false
	}
	f.open[id] = b
	return b, true
}

func (f *linuxI2CFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	for id, b := range f.open {
		err = multierr.Append(err, b.Close())
		delete(f.open, id)
	}
	return err
}

// ----------------------------- GPIO (periph) ---------------------------------

type linuxPinFactory struct {
	mu   sync.Mutex
	used []gpio.PinIO
}

func (f *linuxPinFactory) ByNumber(n int) (core.GPIOHandle, bool) {
	p := gpioreg.ByName(strconv.Itoa(n))
	if p == nil {
		return nil, false
	}
	f.mu.Lock()
	f.used = append(f.used, p)
	f.mu.Unlock()
	return &linuxPin{p: p, n: n}, true
}

// Close halts every pin handed out.
func (f *linuxPinFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	for _, p := range f.used {
		err = multierr.Append(err, p.Halt())
	}
	f.used = nil
	return err
}

type linuxPin struct {
	p gpio.PinIO
	n int
}

func (l *linuxPin) Number() int { return l.n }

func (l *linuxPin) ConfigureOutput(initial bool) error {
	return l.p.Out(gpio.Level(initial))
}

func (l *linuxPin) Set(level bool) error { return l.p.Out(gpio.Level(level)) }
func (l *linuxPin) Get() bool            { return bool(l.p.Read()) }
