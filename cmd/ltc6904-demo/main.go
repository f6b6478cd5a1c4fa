// Command ltc6904-demo brings up the bus, config and HAL services and then
// cycles one LTC6904 through its output modes, stepping the frequency
// 108 kHz -> 5 kHz -> 1 MHz every fourth step.
//
// Build/flash (TinyGo):
//
//	tinygo flash -target pico ./cmd/ltc6904-demo
//
// On a Linux host the oscillator is expected on /dev/i2c-1.
package main

import (
	"context"
	"runtime"
	"time"

	"ltc690x-go/bus"
	"ltc690x-go/services/config"
	"ltc690x-go/services/hal"
	"ltc690x-go/types"
)

const stepEvery = 500 * time.Millisecond

func oscCtrl(verb string) bus.Topic {
	return bus.T("hal", "cap", "clock", string(types.KindOscillator), "osc0", "control", verb)
}

func printTopicWith(prefix string, t bus.Topic) {
	print(prefix)
	print(" ")
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			print("/")
		}
		switch v := t.At(i).(type) {
		case string:
			print(v)
		case int:
			print(v)
		default:
			print("?")
		}
	}
	println()
}

func main() {
	time.Sleep(3 * time.Second)
	ctx := context.Background()

	println("[demo] bootstrapping bus …")
	b := bus.NewBus(8)
	halConn := b.NewConnection("hal")
	cfgConn := b.NewConnection("config")
	uiConn := b.NewConnection("ui")

	mon := uiConn.Subscribe(bus.T("hal", "cap", "clock", "+", "+", "#"))
	go func() {
		for m := range mon.Channel() {
			printTopicWith("[monitor] <-", m.Topic)
			if v, ok := m.Payload.(types.OscillatorValue); ok {
				println("[monitor]   oct:", v.Oct, "dac:", v.DAC, "cnf:", v.Output,
					"req_hz:", v.FrequencyHz, "out_hz:", v.OutputHz, "committed:", v.Committed)
			}
		}
	}()

	println("[demo] starting hal.Run …")
	go func() {
		if err := hal.Run(ctx, halConn, hal.DefaultPlan); err != nil {
			println("[demo] hal stopped:", err.Error())
		}
	}()

	board := "pico"
	if runtime.GOOS == "linux" {
		board = "linux"
	}
	println("[demo] publishing embedded config for", board, "…")
	config.NewConfigService().Start(context.WithValue(ctx, config.CtxDeviceKey, board), cfgConn)

	freq := uint32(108_000)
	for i := 0; ; i = (i + 1) % 4 {
		time.Sleep(stepEvery)
		var req types.OscillatorConfigure
		req, freq = step(i, freq)
		reply, err := uiConn.RequestWait(ctx, uiConn.NewMessage(oscCtrl("configure"), req, false))
		switch {
		case err != nil:
			println("[demo] configure error:", err.Error())
		case reply.Payload != (types.OKReply{OK: true}):
			if e, ok := reply.Payload.(types.ErrorReply); ok {
				println("[demo] configure rejected:", e.Error)
			}
		}
		printMem()
	}
}

// step returns the configure request for position i of the cycle and the
// frequency in force afterwards.
func step(i int, freq uint32) (types.OscillatorConfigure, uint32) {
	req := types.OscillatorConfigure{Commit: true}
	switch i {
	case 0:
		req.Output = "clk_pos"
	case 1:
		req.Output = "clk_neg"
	case 2:
		req.Output = "clk_both"
	default:
		req.Output = "power_down"
		freq = nextFrequency(freq)
		req.Hz = freq
	}
	return req, freq
}

func nextFrequency(f uint32) uint32 {
	switch f {
	case 108_000:
		return 5_000
	case 5_000:
		return 1_000_000
	default:
		return 108_000
	}
}

// printMem prints a compact snapshot of runtime memory stats.
// Uses builtin println to avoid fmt overhead/allocations.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
