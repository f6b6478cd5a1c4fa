package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

// cfgPico drives one LTC6904 on i2c0 (ADR low) with OE on GP15. The poller
// re-reads the chip so the retained value tracks external resets.
const cfgPico = `{
  "hal": {
    "devices": [
      {
        "id": "osc0",
        "type": "ltc6904",
        "params": {
          "bus": "i2c0",
          "enable_pin": 15,
          "frequency_hz": 108000,
          "output": "clk_both",
          "commit": true
        }
      }
    ],
    "pollers": [
      {"domain": "clock", "kind": "oscillator", "name": "osc0", "verb": "refresh", "interval_ms": 5000, "jitter_ms": 100}
    ]
  }
}`

// cfgLinux is the same board wired to a Linux host on /dev/i2c-1, no OE line.
const cfgLinux = `{
  "hal": {
    "devices": [
      {
        "id": "osc0",
        "type": "ltc6904",
        "params": {"bus": "i2c0", "frequency_hz": 108000, "output": "clk_both", "commit": true}
      }
    ]
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico":  []byte(cfgPico),
	"linux": []byte(cfgLinux),
}
