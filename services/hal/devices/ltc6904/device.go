package ltc6904dev

import (
	"context"
	"sync"

	"ltc690x-go/drivers/ltc6904"
	"ltc690x-go/errcode"
	"ltc690x-go/services/hal/internal/core"
	"ltc690x-go/services/hal/internal/drvshim"
	"ltc690x-go/types"
	"ltc690x-go/x/timex"

	"go.uber.org/multierr"
)

// Device exposes one LTC6904 as hal/cap/<domain>/oscillator/<name>.
//
// Controls run on the HAL goroutine and only touch the cached register.
// Bus traffic (commit, refresh) is queued to the device's own op goroutine,
// which waits on the I²C worker with the configured timeout. mu guards the
// driver across both.
type Device struct {
	id     string
	a      core.CapAddr
	res    core.Resources
	gpio   core.GPIOHandle // nil when no OE line
	params Params

	ops  chan func()
	quit chan struct{}

	mu        sync.Mutex
	shim      *drvshim.I2C
	drv       *ltc6904.Device
	committed bool // cached register matches the chip
	enabled   bool
	closed    bool
}

// ---- core.Device interface ----

func (d *Device) ID() string { return d.id }

func (d *Device) Capabilities() []core.CapabilitySpec {
	pin := -1
	if d.params.EnablePin != nil {
		pin = *d.params.EnablePin
	}
	return []core.CapabilitySpec{{
		Domain: d.a.Domain,
		Kind:   types.KindOscillator,
		Name:   d.a.Name,
		Info: types.Info{SchemaVersion: 1, Driver: "ltc6904", Detail: types.OscillatorInfo{
			Bus:       d.params.Bus,
			Addr:      d.drv.Address(),
			EnablePin: pin,
			MinHz:     ltc6904.FreqMin,
			MaxHz:     ltc6904.FreqMax,
		}},
	}}
}

func (d *Device) Init(ctx context.Context) error {
	if d.gpio != nil {
		// Hold the output off until a configuration has been written.
		if err := d.gpio.ConfigureOutput(false); err != nil {
			return err
		}
	}
	if !d.params.Commit {
		d.mu.Lock()
		d.emitValueLocked()
		d.mu.Unlock()
		return nil
	}
	if res := d.enqueue(func() { d.commitOp(d.gpio != nil) }); !res.OK {
		return res.Error
	}
	return nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	close(d.quit)
	d.drv.Free()

	var err error
	if d.gpio != nil {
		err = multierr.Append(err, d.gpio.Set(false))
		err = multierr.Append(err, d.res.Reg.ReleaseGPIO(d.id, *d.params.EnablePin))
	}
	return multierr.Append(err, d.res.Reg.ReleaseI2C(d.id, core.ResourceID(d.params.Bus)))
}

func (d *Device) Control(_ core.CapAddr, verb string, payload any) (core.EnqueueResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return reject(errcode.Unavailable), nil
	}

	switch verb {
	case "read":
		d.emitValueLocked()
		return core.EnqueueResult{OK: true}, nil

	case "set_frequency":
		v, code := core.As[types.OscillatorSetFrequency](payload)
		if code != "" {
			return reject(code), nil
		}
		if _, err := d.drv.SetFrequency(v.Hz); err != nil {
			return reject(errcode.MapDriverErr(err)), nil
		}
		return d.afterCacheChangeLocked(v.Commit), nil

	case "set_output":
		v, code := core.As[types.OscillatorSetOutput](payload)
		if code != "" {
			return reject(code), nil
		}
		s, ok := ltc6904.ParseOutputSettings(v.Output)
		if !ok {
			return reject(errcode.InvalidPayload), nil
		}
		d.drv.SetOutputConf(s)
		return d.afterCacheChangeLocked(v.Commit), nil

	case "configure":
		v, code := core.As[types.OscillatorConfigure](payload)
		if code != "" {
			return reject(code), nil
		}
		// Validate everything before touching the cache.
		s := d.drv.OutputConf()
		if v.Output != "" {
			var ok bool
			if s, ok = ltc6904.ParseOutputSettings(v.Output); !ok {
				return reject(errcode.InvalidPayload), nil
			}
		}
		if v.Hz != 0 {
			if _, err := d.drv.SetFrequency(v.Hz); err != nil {
				return reject(errcode.MapDriverErr(err)), nil
			}
		}
		d.drv.SetOutputConf(s)
		return d.afterCacheChangeLocked(v.Commit), nil

	case "commit":
		return d.enqueue(func() { d.commitOp(false) }), nil

	case "refresh":
		return d.enqueue(d.refreshOp), nil

	case "enable", "disable":
		if d.gpio == nil {
			return reject(errcode.NoEnablePin), nil
		}
		var err error
		if verb == "enable" {
			err = d.drv.EnableOutput()
		} else {
			err = d.drv.DisableOutput()
		}
		if err != nil {
			d.emitErrLocked(err)
			return reject(errcode.MapDriverErr(err)), nil
		}
		d.enabled = verb == "enable"
		d.emitValueLocked()
		return core.EnqueueResult{OK: true}, nil

	default:
		return reject(errcode.Unsupported), nil
	}
}

func reject(c errcode.Code) core.EnqueueResult { return core.EnqueueResult{OK: false, Error: c} }

// caller holds mu
func (d *Device) afterCacheChangeLocked(commit bool) core.EnqueueResult {
	d.committed = false
	if commit {
		return d.enqueue(func() { d.commitOp(false) })
	}
	d.emitValueLocked()
	return core.EnqueueResult{OK: true}
}

func (d *Device) enqueue(op func()) core.EnqueueResult {
	select {
	case d.ops <- op:
		return core.EnqueueResult{OK: true}
	default:
		return reject(errcode.Busy)
	}
}

// ---- Bus ops (run on the device's op goroutine) ----

func (d *Device) runOps() {
	for {
		select {
		case <-d.quit:
			return
		case op := <-d.ops:
			op()
		}
	}
}

func (d *Device) commitOp(thenEnable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if err := d.drv.WriteOut(); err != nil {
		println("[ltc6904]", d.id, "commit failed:", err.Error())
		d.emitErrLocked(err)
		return
	}
	d.committed = true
	if thenEnable {
		if err := d.drv.EnableOutput(); err != nil {
			d.emitErrLocked(err)
			return
		}
		d.enabled = true
	}
	d.emitValueLocked()
}

func (d *Device) refreshOp() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if err := d.drv.Refresh(); err != nil {
		println("[ltc6904]", d.id, "refresh failed:", err.Error())
		d.emitErrLocked(err)
		return
	}
	d.committed = true
	d.emitValueLocked()
}

// ---- Publication ----

// caller holds mu
func (d *Device) valueLocked() types.OscillatorValue {
	oct, dac := d.drv.Oct(), d.drv.DAC()
	hz := ltc6904.OutputHz(oct, dac)
	return types.OscillatorValue{
		FrequencyHz: d.drv.Frequency(),
		OutputHz:    hz,
		PeriodNs:    timex.PeriodFromHz(hz),
		Oct:         uint8(oct),
		DAC:         dac,
		Output:      d.drv.OutputConf().String(),
		Register:    d.drv.Reg(),
		Committed:   d.committed,
		Enabled:     d.enabled,
	}
}

func (d *Device) emitValueLocked() {
	_ = d.res.Pub.Emit(core.Event{Addr: d.a, Payload: d.valueLocked(), TSms: timex.NowMs()})
}

func (d *Device) emitErrLocked(err error) {
	_ = d.res.Pub.Emit(core.Event{Addr: d.a, TSms: timex.NowMs(), Err: string(errcode.MapDriverErr(err))})
}
