package provider

import (
	"context"
	"sync"
	"time"

	"ltc690x-go/services/hal/internal/core"
	"ltc690x-go/services/hal/internal/platform"

	"go.uber.org/multierr"
	"tinygo.org/x/drivers"
)

// Ensure the provider satisfies the contracts at compile time.
var _ core.ResourceRegistry = (*Registry)(nil)

const (
	defaultTxTimeout = 25 * time.Millisecond
	jobQueueLen      = 16
)

// Registry hands out I²C owners and GPIO handles. Each I²C bus is driven by
// a single worker goroutine; all transactions and jobs for that bus run there.
// I²C buses are shared between devices, GPIO pins are exclusive.
type Registry struct {
	ctx  context.Context
	i2cF platform.I2CBusFactory
	pinF platform.PinFactory

	mu    sync.Mutex
	buses map[core.ResourceID]*i2cWorker
	pins  map[int]string // pin -> owning devID

	txTimeout time.Duration
}

type Option func(*Registry)

// WithTxTimeout sets the default per-transaction timeout.
func WithTxTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.txTimeout = d
		}
	}
}

// NewResourceRegistry constructs the registry. Bus workers stop when ctx is
// cancelled or when the last claimant releases the bus.
func NewResourceRegistry(ctx context.Context, i2cF platform.I2CBusFactory, pinF platform.PinFactory, opts ...Option) *Registry {
	r := &Registry{
		ctx:       ctx,
		i2cF:      i2cF,
		pinF:      pinF,
		buses:     map[core.ResourceID]*i2cWorker{},
		pins:      map[int]string{},
		txTimeout: defaultTxTimeout,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// NewResources wraps a registry for HAL injection.
func NewResources(reg core.ResourceRegistry) core.Resources {
	return core.Resources{Reg: reg}
}

// -----------------------------------------------------------------------------
// I²C
// -----------------------------------------------------------------------------

func (r *Registry) ClaimI2C(devID string, id core.ResourceID) (core.I2COwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.buses[id]
	if w == nil {
		if r.i2cF == nil {
			return nil, core.ErrUnknownBus
		}
		b, ok := r.i2cF.ByID(string(id))
		if !ok {
			return nil, core.ErrUnknownBus
		}
		w = newI2CWorker(r.ctx, b)
		r.buses[id] = w
	}
	if w.users[devID] {
		return nil, core.ErrBusInUse
	}
	w.users[devID] = true
	return &i2cOwner{w: w, timeout: r.txTimeout}, nil
}

func (r *Registry) ReleaseI2C(devID string, id core.ResourceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.buses[id]
	if w == nil || !w.users[devID] {
		return core.ErrNotOwner
	}
	delete(w.users, devID)
	if len(w.users) == 0 {
		w.stop()
		delete(r.buses, id)
	}
	return nil
}

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

func (r *Registry) ClaimGPIO(devID string, pin int) (core.GPIOHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pinF == nil {
		return nil, core.ErrUnknownPin
	}
	if owner, ok := r.pins[pin]; ok && owner != "" {
		return nil, core.ErrPinInUse
	}
	h, ok := r.pinF.ByNumber(pin)
	if !ok {
		return nil, core.ErrUnknownPin
	}
	r.pins[pin] = devID
	return h, nil
}

func (r *Registry) ReleaseGPIO(devID string, pin int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pins[pin] != devID {
		return core.ErrNotOwner
	}
	delete(r.pins, pin)
	return nil
}

// Close stops all bus workers and closes the platform factories.
func (r *Registry) Close() error {
	r.mu.Lock()
	for id, w := range r.buses {
		w.stop()
		delete(r.buses, id)
	}
	r.pins = map[int]string{}
	r.mu.Unlock()

	var err error
	if r.i2cF != nil {
		err = multierr.Append(err, r.i2cF.Close())
	}
	if r.pinF != nil {
		err = multierr.Append(err, r.pinF.Close())
	}
	return err
}

// -----------------------------------------------------------------------------
// Bus worker
// -----------------------------------------------------------------------------

type i2cWorker struct {
	bus   drivers.I2C
	jobs  chan core.I2CJob
	done  chan struct{}
	once  sync.Once
	users map[string]bool // guarded by Registry.mu
}

func newI2CWorker(ctx context.Context, bus drivers.I2C) *i2cWorker {
	w := &i2cWorker{
		bus:   bus,
		jobs:  make(chan core.I2CJob, jobQueueLen),
		done:  make(chan struct{}),
		users: map[string]bool{},
	}
	go w.run(ctx)
	return w
}

func (w *i2cWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case job := <-w.jobs:
			job(w.bus)
		}
	}
}

func (w *i2cWorker) stop() { w.once.Do(func() { close(w.done) }) }

func (w *i2cWorker) stopped() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// i2cOwner is the per-claim handle given to devices.
type i2cOwner struct {
	w       *i2cWorker
	timeout time.Duration
}

func (o *i2cOwner) TryEnqueue(job core.I2CJob) bool {
	if o.w.stopped() {
		return false
	}
	select {
	case o.w.jobs <- job:
		return true
	default:
		return false
	}
}

// Tx runs one transaction on the worker and waits for it. On timeout the
// transaction may still complete later; callers must not reuse r until then.
func (o *i2cOwner) Tx(addr uint16, w, r []byte, timeoutMS int) error {
	if o.w.stopped() {
		return core.ErrClosed
	}
	d := o.timeout
	if timeoutMS > 0 {
		d = time.Duration(timeoutMS) * time.Millisecond
	}
	done := make(chan error, 1)
	job := func(bus core.I2CBus) { done <- bus.Tx(addr, w, r) }

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case o.w.jobs <- job:
	case <-o.w.done:
		return core.ErrClosed
	case <-t.C:
		return core.ErrTimeout
	}
	select {
	case err := <-done:
		return err
	case <-o.w.done:
		return core.ErrClosed
	case <-t.C:
		return core.ErrTimeout
	}
}
