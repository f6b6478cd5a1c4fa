package ltc6904dev

import (
	"context"
	"encoding/json"

	"ltc690x-go/drivers/ltc6904"
	"ltc690x-go/errcode"
	"ltc690x-go/services/hal/internal/core"
	"ltc690x-go/services/hal/internal/drvshim"
	"ltc690x-go/services/hal/internal/util"
	"ltc690x-go/types"
	"ltc690x-go/x/mathx"
	"ltc690x-go/x/strx"

	"go.uber.org/multierr"
)

// Params defines wiring and start-up behaviour for one LTC6904 instance.
type Params struct {
	Bus       string `json:"bus"`                  // e.g. "i2c0" (required)
	AddrHigh  bool   `json:"addr_high,omitempty"`  // ADR pin high => 0x16, else 0x17
	EnablePin *int   `json:"enable_pin,omitempty"` // optional OE line

	// Optional start-up state. FrequencyHz 0 leaves the power-on cache.
	FrequencyHz uint32 `json:"frequency_hz,omitempty"`
	Output      string `json:"output,omitempty"` // "clk_neg" | "clk_both" | "clk_pos" | "power_down"
	Commit      bool   `json:"commit,omitempty"` // write the register (and enable OE) on Init

	// Public naming; defaults "clock" and the device ID.
	Domain string `json:"domain,omitempty"`
	Name   string `json:"name,omitempty"`

	TimeoutMS int `json:"timeout_ms,omitempty"` // per-transaction; 0 => provider default
}

const (
	maxTimeoutMS = 1000
	opQueueLen   = 4
)

// Builder registration.
func init() { core.RegisterBuilder("ltc6904", builder{}) }

type builder struct{}

func (builder) Build(ctx context.Context, in core.BuilderInput) (core.Device, error) {
	p, err := decodeParams(in.Params)
	if err != nil {
		return nil, err
	}
	if p.Bus == "" {
		return nil, errcode.InvalidParams
	}
	out := ltc6904.ClkNeg
	if p.Output != "" {
		var ok bool
		if out, ok = ltc6904.ParseOutputSettings(p.Output); !ok {
			return nil, errcode.InvalidParams
		}
	}
	if p.FrequencyHz != 0 {
		if _, _, err := ltc6904.Encode(p.FrequencyHz); err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, "frequency_hz", err)
		}
	}
	p.Domain = strx.Coalesce(p.Domain, "clock")
	p.Name = strx.Coalesce(p.Name, in.ID)
	p.TimeoutMS = mathx.Clamp(p.TimeoutMS, 0, maxTimeoutMS)

	// Claim I2C (serialised by provider) and the optional OE line.
	owner, err := in.Res.Reg.ClaimI2C(in.ID, core.ResourceID(p.Bus))
	if err != nil {
		return nil, err
	}
	var gpio core.GPIOHandle
	if p.EnablePin != nil {
		gpio, err = in.Res.Reg.ClaimGPIO(in.ID, *p.EnablePin)
		if err != nil {
			return nil, multierr.Append(err, in.Res.Reg.ReleaseI2C(in.ID, core.ResourceID(p.Bus)))
		}
	}

	addr := ltc6904.AddressLow
	if p.AddrHigh {
		addr = ltc6904.AddressHigh
	}

	d := &Device{
		id:     in.ID,
		a:      core.CapAddr{Domain: p.Domain, Kind: types.KindOscillator, Name: p.Name},
		res:    in.Res,
		gpio:   gpio,
		params: p,
		ops:    make(chan func(), opQueueLen),
		quit:   make(chan struct{}),
		shim:   drvshim.NewI2C(owner).WithTimeout(p.TimeoutMS),
	}
	var oe ltc6904.PinOutput
	if gpio != nil {
		oe = gpio.Set
	}
	d.drv = ltc6904.New(d.shim, addr, oe)
	d.drv.SetOutputConf(out)
	if p.FrequencyHz != 0 {
		_, _ = d.drv.SetFrequency(p.FrequencyHz) // range checked above
	}
	go d.runOps()
	return d, nil
}

// decodeParams accepts the typed struct or the JSON object from a board
// config file.
func decodeParams(v any) (Params, error) {
	switch x := v.(type) {
	case Params:
		return x, nil
	case *Params:
		if x != nil {
			return *x, nil
		}
		return Params{}, errcode.InvalidParams
	case json.RawMessage, []byte, string, map[string]any:
		var p Params
		if err := util.DecodeJSON(x, &p); err != nil {
			return Params{}, errcode.Wrap(errcode.InvalidParams, "params", err)
		}
		return p, nil
	}
	return Params{}, errcode.InvalidParams
}
