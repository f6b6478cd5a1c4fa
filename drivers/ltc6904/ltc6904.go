// Package ltc6904 provides a TinyGo driver for the LTC6904 I²C programmable
// oscillator (1 kHz to 68 MHz).
//
// Design notes (datasheet references):
//   - A single 16-bit register: OCT[15:12] | DAC[11:2] | CNF[1:0], sent MSB first.
//   - No register address byte; a write is exactly two data bytes.
//   - 7-bit address 0x17 with ADR low, 0x16 with ADR high.
//   - The OE pin is not on the bus; it is driven through an optional PinOutput.
//
// All setters only update the cached register. Call WriteOut to commit it:
//
//	d := ltc6904.New(i2c, ltc6904.AddressLow, nil)
//	if _, err := d.SetFrequency(108_000); err != nil { ... }
//	d.SetOutputConf(ltc6904.ClkBoth)
//	err := d.WriteOut()
package ltc6904

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address selects the device address from the ADR pin strapping.
type Address uint8

const (
	AddressLow  Address = iota // ADR tied low
	AddressHigh                // ADR tied high
)

// 7-bit bus addresses.
const (
	AddrLow  uint16 = 0x17
	AddrHigh uint16 = 0x16
)

// Bus returns the 7-bit bus address for the selector.
func (a Address) Bus() uint16 {
	if a == AddressHigh {
		return AddrHigh
	}
	return AddrLow
}

var (
	ErrNoEnablePin = errors.New("ltc6904: output enable pin not configured")
	ErrBusReleased = errors.New("ltc6904: bus released")
)

// Device is a session with one LTC6904. It owns the bus handle until Free.
type Device struct {
	bus  drivers.I2C
	addr uint16
	oe   PinOutput

	reg   Register
	frequ uint32

	// Fixed buffers to avoid per-call heap allocations.
	w [2]byte
	r [2]byte
}

// New creates a session. It does not touch the bus. oe may be nil when the
// output-enable pin is not under software control.
func New(bus drivers.I2C, addr Address, oe PinOutput) *Device {
	return &Device{
		bus:   bus,
		addr:  addr.Bus(),
		oe:    oe,
		frequ: FreqMin,
	}
}

// Address returns the 7-bit bus address in use.
func (d *Device) Address() uint16 { return d.addr }

// Free releases the bus handle to the caller. The device keeps its last
// committed configuration.
func (d *Device) Free() drivers.I2C {
	b := d.bus
	d.bus = nil
	return b
}

// EnableOutput drives OE high.
func (d *Device) EnableOutput() error {
	if d.oe == nil {
		return ErrNoEnablePin
	}
	return d.oe(true)
}

// DisableOutput drives OE low.
func (d *Device) DisableOutput() error {
	if d.oe == nil {
		return ErrNoEnablePin
	}
	return d.oe(false)
}

// Cached register accessors.

func (d *Device) Reg() uint16 { return uint16(d.reg) }
func (d *Device) Oct() uint16 { return d.reg.Oct() }
func (d *Device) DAC() uint16 { return d.reg.DAC() }
func (d *Device) CNF() uint16 { return d.reg.CNF() }

// SetOutputConf updates CNF in the cache.
func (d *Device) SetOutputConf(s OutputSettings) { d.reg.SetCNF(s.Bits()) }

func (d *Device) OutputConf() OutputSettings { return OutputSettingsFromBits(d.reg.CNF()) }

// SetFrequency encodes f into OCT and DAC and returns the updated register.
// On a range error nothing is changed.
func (d *Device) SetFrequency(f uint32) (uint16, error) {
	oct, dac, err := Encode(f)
	if err != nil {
		return 0, err
	}
	d.frequ = f
	d.reg.SetOct(oct)
	d.reg.SetDAC(dac)
	return uint16(d.reg), nil
}

// Frequency returns the last frequency accepted by SetFrequency. It is not
// derived from the register, so it is not updated by Refresh.
func (d *Device) Frequency() uint32 { return d.frequ }

// WriteOut commits the cached register in one bus write. Bus errors are
// returned unchanged and the cache is left as is; retry to converge.
func (d *Device) WriteOut() error { return d.writeReg(uint16(d.reg)) }

// Refresh replaces the cached register with the device's current value.
func (d *Device) Refresh() error {
	v, err := d.readReg()
	if err != nil {
		return err
	}
	d.reg = Register(v)
	return nil
}
