package errcode

import (
	"errors"

	"ltc690x-go/drivers/ltc6904"
)

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                Code = "ok"
	Busy              Code = "busy"
	Unsupported       Code = "unsupported"
	InvalidParams     Code = "invalid_params"
	InvalidPayload    Code = "invalid_payload"
	UnknownCapability Code = "unknown_capability"
	HALNotReady       Code = "hal_not_ready"
	InvalidTopic      Code = "invalid_topic"

	UnknownBus  Code = "unknown_bus"
	BusInUse    Code = "bus_in_use"
	UnknownPin  Code = "unknown_pin"
	PinInUse    Code = "pin_in_use"
	NotOwner    Code = "not_owner"
	Timeout     Code = "timeout"
	Closed      Code = "closed"
	Unavailable Code = "unavailable"
	IOError     Code = "io_error"

	// Oscillator
	FrequencyTooLow  Code = "frequency_too_low"
	FrequencyTooHigh Code = "frequency_too_high"
	NoEnablePin      Code = "no_enable_pin"
	BusReleased      Code = "bus_released"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap attaches a code and operation to a cause.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

// MapDriverErr maps low-level driver errors to a Code. Anything the driver
// passes through from the bus is reported as io_error.
func MapDriverErr(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, ltc6904.ErrFrequencyTooLow):
		return FrequencyTooLow
	case errors.Is(err, ltc6904.ErrFrequencyTooHigh):
		return FrequencyTooHigh
	case errors.Is(err, ltc6904.ErrNoEnablePin):
		return NoEnablePin
	case errors.Is(err, ltc6904.ErrBusReleased):
		return BusReleased
	}
	if c := Of(err); c != Error {
		return c
	}
	return IOError
}
