// services/hal/internal/platform/factories_rp2xxx.go
//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"ltc690x-go/services/hal/internal/core"
	"ltc690x-go/services/hal/internal/platform/setups"

	"tinygo.org/x/drivers"
)

// -----------------------------------------------------------------------------
// Defaults used on Raspberry Pi Pico / Pico 2 (RP2 family)
// -----------------------------------------------------------------------------

// Open configures the planned I²C controllers on their planned pins.
func Open(plan setups.ResourcePlan) (I2CBusFactory, PinFactory, error) {
	f := &rp2I2CFactory{buses: make(map[string]drivers.I2C)}
	for _, p := range plan.I2C {
		var b *machine.I2C
		switch p.ID {
		case "i2c0":
			b = machine.I2C0
		case "i2c1":
			b = machine.I2C1
		default:
			continue
		}
		hz := p.Hz
		if hz == 0 {
			hz = 400 * machine.KHz
		}
		if err := b.Configure(machine.I2CConfig{
			Frequency: hz,
			SDA:       machine.Pin(p.SDA),
			SCL:       machine.Pin(p.SCL),
		}); err != nil {
			println("[platform] i2c configure failed:", p.ID, err.Error())
			continue
		}
		f.buses[p.ID] = b
	}
	return f, rp2PinFactory{}, nil
}

type rp2I2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *rp2I2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

func (f *rp2I2CFactory) Close() error { return nil }

// ---- GPIO ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (core.GPIOHandle, bool) {
	// Constrain to RP2’s user GPIOs (GP0..GP29).
	if n < 0 || n > 29 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

func (rp2PinFactory) Close() error { return nil }

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) error {
	r.p.Set(level)
	return nil
}

func (r *rp2Pin) Get() bool { return r.p.Get() }
