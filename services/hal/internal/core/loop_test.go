package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"ltc690x-go/bus"
	"ltc690x-go/errcode"
	"ltc690x-go/types"
)

// stubDevice accepts "read" and answers unsupported to everything else.
type stubDevice struct {
	mu    sync.Mutex
	calls map[string]int
}

func (d *stubDevice) ID() string { return "stub0" }
func (d *stubDevice) Capabilities() []CapabilitySpec {
	return []CapabilitySpec{{Domain: "clock", Kind: types.KindOscillator, Name: "stub0"}}
}
func (d *stubDevice) Init(context.Context) error { return nil }
func (d *stubDevice) Close() error               { return nil }

func (d *stubDevice) Control(_ CapAddr, verb string, _ any) (EnqueueResult, error) {
	d.mu.Lock()
	d.calls[verb]++
	d.mu.Unlock()
	if verb != "read" {
		return EnqueueResult{Error: errcode.Unsupported}, nil
	}
	return EnqueueResult{OK: true}, nil
}

func (d *stubDevice) count(verb string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[verb]
}

var stub = &stubDevice{calls: map[string]int{}}

type stubBuilder struct{}

func (stubBuilder) Build(context.Context, BuilderInput) (Device, error) { return stub, nil }

func init() { RegisterBuilder("test_stub", stubBuilder{}) }

func TestHAL_UnsupportedPollVerbIsUnscheduled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	h := NewHAL(b.NewConnection("hal"), Resources{})
	go h.Run(ctx)

	conn := b.NewConnection("test")
	conn.Publish(conn.NewMessage(TopicConfigHAL(), types.HALConfig{
		Devices: []types.HALDevice{{ID: "stub0", Type: "test_stub"}},
		Pollers: []types.PollSpec{
			{Domain: "clock", Kind: types.KindOscillator, Name: "stub0", Verb: "bogus", IntervalMs: 10},
			{Domain: "clock", Kind: types.KindOscillator, Name: "stub0", Verb: "read", IntervalMs: 10},
		},
	}, true))

	deadline := time.Now().Add(time.Second)
	for stub.count("bogus") == 0 || h.poller.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("bogus calls=%d schedules=%d, want >=1 and 1", stub.count("bogus"), h.poller.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Requests already queued before the stop may still land.
	time.Sleep(50 * time.Millisecond)
	bogus, reads := stub.count("bogus"), stub.count("read")
	time.Sleep(100 * time.Millisecond)

	if got := stub.count("bogus"); got != bogus {
		t.Fatalf("unsupported verb still polled: %d calls, was %d", got, bogus)
	}
	if got := stub.count("read"); got <= reads {
		t.Fatalf("read poller stopped too (%d calls, was %d)", got, reads)
	}
}
