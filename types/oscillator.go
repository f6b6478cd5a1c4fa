package types

// ------------------------
// Oscillator (ltc6904)
// ------------------------

// Retained info: hal/cap/clock/oscillator/<name>/info (as Info.Detail)
type OscillatorInfo struct {
	Bus       string `json:"bus"`
	Addr      uint16 `json:"addr"`
	EnablePin int    `json:"enable_pin"` // -1 when not wired
	MinHz     uint32 `json:"min_hz"`
	MaxHz     uint32 `json:"max_hz"`
}

// Retained value: hal/cap/clock/oscillator/<name>/value
//
// FrequencyHz is the last requested frequency; OutputHz is what the cached
// OCT/DAC pair actually produces.
type OscillatorValue struct {
	FrequencyHz uint32 `json:"frequency_hz"`
	OutputHz    uint32 `json:"output_hz"`
	PeriodNs    uint64 `json:"period_ns"` // of OutputHz
	Oct         uint8  `json:"oct"`
	DAC         uint16 `json:"dac"`
	Output      string `json:"output"` // "clk_neg" | "clk_both" | "clk_pos" | "power_down"
	Register    uint16 `json:"register"`
	Committed   bool   `json:"committed"` // cached register matches the chip
	Enabled     bool   `json:"enabled"`
}

// ---- Controls ----

// hal/cap/clock/oscillator/<name>/control/set_frequency
type OscillatorSetFrequency struct {
	Hz     uint32 `json:"hz"`
	Commit bool   `json:"commit,omitempty"` // write the register after updating the cache
}

// hal/cap/clock/oscillator/<name>/control/set_output
type OscillatorSetOutput struct {
	Output string `json:"output"`
	Commit bool   `json:"commit,omitempty"`
}

// hal/cap/clock/oscillator/<name>/control/configure
// Zero-valued fields are left unchanged.
type OscillatorConfigure struct {
	Hz     uint32 `json:"hz,omitempty"`
	Output string `json:"output,omitempty"`
	Commit bool   `json:"commit,omitempty"`
}
