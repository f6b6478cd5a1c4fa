package ltc6904

// PinOutput drives a digital output line. It reports whatever error the
// platform's line implementation produces.
type PinOutput func(level bool) error

// The LTC6904 has no register address: a write is the bare 16-bit word,
// a read returns it (big-endian: HIGH then LOW).

func (d *Device) readReg() (uint16, error) {
	if d.bus == nil {
		return 0, ErrBusReleased
	}
	if err := d.bus.Tx(d.addr, nil, d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(RegisterFromBytes(d.r)), nil
}

func (d *Device) writeReg(val uint16) error {
	if d.bus == nil {
		return ErrBusReleased
	}
	d.w = Register(val).Bytes()
	return d.bus.Tx(d.addr, d.w[:], nil)
}
