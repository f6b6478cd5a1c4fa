package platform

import (
	"errors"
	"sync"
	"time"

	"ltc690x-go/services/hal/internal/core"
	"ltc690x-go/services/hal/internal/platform/setups"

	"tinygo.org/x/drivers"
)

// ----------------------------- I²C (fake) ------------------------------------

var ErrFakeNack = errors.New("fake i2c: nack")

// FakeI2CTx records one transaction.
type FakeI2CTx struct {
	Addr uint16
	W    []byte
	Rn   int
}

// FakeI2C implements drivers.I2C for host builds and tests. Every address
// behaves like a command-less 16-bit register: a 2-byte write stores it and
// a 2-byte read returns it.
type FakeI2C struct {
	mu   sync.Mutex
	regs map[uint16][2]byte
	txs  []FakeI2CTx

	// Fail, when set, is returned by every Tx.
	Fail error
	// Present limits which addresses ACK; nil means all.
	Present map[uint16]bool
	// Delay stalls every Tx, like a slave stretching the clock.
	Delay time.Duration
}

func NewFakeI2C() *FakeI2C { return &FakeI2C{regs: map[uint16][2]byte{}} }

func (f *FakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs = append(f.txs, FakeI2CTx{Addr: addr, W: append([]byte(nil), w...), Rn: len(r)})
	if f.Fail != nil {
		return f.Fail
	}
	if f.Present != nil && !f.Present[addr] {
		return ErrFakeNack
	}
	if f.regs == nil {
		f.regs = map[uint16][2]byte{}
	}
	if len(w) == 2 {
		f.regs[addr] = [2]byte{w[0], w[1]}
	}
	if len(r) > 0 {
		v := f.regs[addr]
		copy(r, v[:])
	}
	return nil
}

// Reg returns the emulated register at addr.
func (f *FakeI2C) Reg(addr uint16) [2]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[addr]
}

// SetReg preloads the emulated register at addr.
func (f *FakeI2C) SetReg(addr uint16, v [2]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.regs == nil {
		f.regs = map[uint16][2]byte{}
	}
	f.regs[addr] = v
}

// Txs returns a copy of the recorded transactions.
func (f *FakeI2C) Txs() []FakeI2CTx {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeI2CTx(nil), f.txs...)
}

// FakeI2CFactory serves one FakeI2C per planned bus id.
type FakeI2CFactory struct {
	buses map[string]*FakeI2C
}

func NewFakeI2CFactory(plan setups.ResourcePlan) *FakeI2CFactory {
	f := &FakeI2CFactory{buses: map[string]*FakeI2C{}}
	for _, p := range plan.I2C {
		f.buses[p.ID] = NewFakeI2C()
	}
	return f
}

func (f *FakeI2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	if !ok {
		return nil, false
	}
	return b, true
}

// Bus exposes the underlying *FakeI2C for tests.
func (f *FakeI2CFactory) Bus(id string) *FakeI2C { return f.buses[id] }

func (f *FakeI2CFactory) Close() error { return nil }

// ----------------------------- GPIO (fake) -----------------------------------

// FakePin implements core.GPIOHandle for host builds and tests.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	writes  int

	// Fail, when set, is returned by Set and ConfigureOutput.
	Fail error
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	p.modeOut = true
	p.level = initial
	return nil
}

func (p *FakePin) Set(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	p.level = level
	p.writes++
	return nil
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// IsOutput reports whether the pin was configured as an output.
func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

// FakePinFactory returns stable *FakePin instances per number.
type FakePinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
	Max  int // highest valid pin number; 0 => 29
}

func (f *FakePinFactory) ByNumber(n int) (core.GPIOHandle, bool) {
	p, ok := f.Get(n)
	if !ok {
		return nil, false
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests.
func (f *FakePinFactory) Get(n int) (*FakePin, bool) {
	max := f.Max
	if max == 0 {
		max = 29
	}
	if n < 0 || n > max {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

func (f *FakePinFactory) Close() error { return nil }
