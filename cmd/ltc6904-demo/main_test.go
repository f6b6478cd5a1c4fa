package main

import (
	"testing"

	"ltc690x-go/types"

	"github.com/google/go-cmp/cmp"
)

func TestStepCycle(t *testing.T) {
	freq := uint32(108_000)
	var got []types.OscillatorConfigure
	for i := 0; i < 8; i++ {
		var req types.OscillatorConfigure
		req, freq = step(i%4, freq)
		got = append(got, req)
	}
	want := []types.OscillatorConfigure{
		{Output: "clk_pos", Commit: true},
		{Output: "clk_neg", Commit: true},
		{Output: "clk_both", Commit: true},
		{Output: "power_down", Hz: 5_000, Commit: true},
		{Output: "clk_pos", Commit: true},
		{Output: "clk_neg", Commit: true},
		{Output: "clk_both", Commit: true},
		{Output: "power_down", Hz: 1_000_000, Commit: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestNextFrequency(t *testing.T) {
	for in, want := range map[uint32]uint32{108_000: 5_000, 5_000: 1_000_000, 1_000_000: 108_000, 42: 108_000} {
		if got := nextFrequency(in); got != want {
			t.Fatalf("nextFrequency(%d) = %d, want %d", in, got, want)
		}
	}
}
