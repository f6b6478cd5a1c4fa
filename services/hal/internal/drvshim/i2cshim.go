package drvshim

import "ltc690x-go/services/hal/internal/core"

// I2C adapts a core.I2COwner to the tinygo driver Tx shape. Each Tx is queued
// on the bus worker and bounded by the configured timeout.
type I2C struct {
	o         core.I2COwner
	timeoutMS int // 0 selects the owner's default
}

func NewI2C(owner core.I2COwner) *I2C {
	return &I2C{o: owner}
}

func (s *I2C) WithTimeout(ms int) *I2C {
	if ms > 0 {
		s.timeoutMS = ms
	}
	return s
}

// Tx must not be called from inside a worker job.
//
// A timed-out transaction may still run later on the worker, so the caller's
// buffers are never handed to it: w is copied and r is filled only on success.
func (s *I2C) Tx(addr uint16, w, r []byte) error {
	if s.o == nil {
		return core.ErrClosed
	}
	wb := append([]byte(nil), w...)
	var rb []byte
	if len(r) > 0 {
		rb = make([]byte, len(r))
	}
	if err := s.o.Tx(addr, wb, rb, s.timeoutMS); err != nil {
		return err
	}
	copy(r, rb)
	return nil
}
