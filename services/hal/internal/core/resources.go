package core

import "ltc690x-go/errcode"

type ResourceID string // e.g. "i2c0", "i2c1"

// ---- Transactional buses (serialised operations) ----

// I2CBus is the raw transaction shape of a bus, as seen from inside the
// bus worker. It matches tinygo.org/x/drivers.I2C.
type I2CBus interface {
	Tx(addr uint16, w, r []byte) error
}

// I2CJob runs on the bus worker with exclusive access to the bus.
type I2CJob func(bus I2CBus)

// I2COwner is a claimed handle on a bus. All hardware access is serialised
// behind a single worker per bus.
type I2COwner interface {
	// Tx blocks until the transaction completes or times out.
	// timeoutMS: 0 => provider default.
	Tx(addr uint16, w, r []byte, timeoutMS int) error
	// TryEnqueue queues a job without blocking; false if the queue is full.
	TryEnqueue(job I2CJob) bool
}

// ---- GPIO handles ----

type GPIOHandle interface {
	Number() int
	ConfigureOutput(initial bool) error
	Set(level bool) error
	Get() bool
}

// ---- Unified registry interface ----

type ResourceRegistry interface {
	ClaimI2C(devID string, id ResourceID) (I2COwner, error)
	ReleaseI2C(devID string, id ResourceID) error

	ClaimGPIO(devID string, pin int) (GPIOHandle, error)
	ReleaseGPIO(devID string, pin int) error
}

// Short error codes

var (
	ErrUnknownPin error = errcode.UnknownPin
	ErrPinInUse   error = errcode.PinInUse

	ErrUnknownBus error = errcode.UnknownBus
	ErrBusInUse   error = errcode.BusInUse
	ErrNotOwner   error = errcode.NotOwner
	ErrTimeout    error = errcode.Timeout
	ErrClosed     error = errcode.Closed
)
