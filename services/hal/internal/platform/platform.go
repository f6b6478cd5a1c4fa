// Package platform provides I²C bus and GPIO factories per build target.
// The provider claims resources through these factories; nothing above the
// provider touches hardware directly.
package platform

import (
	"ltc690x-go/services/hal/internal/core"

	"tinygo.org/x/drivers"
)

// I2CBusFactory injects configured I²C instances by id.
// Uses the TinyGo drivers.I2C interface to remain compatible on MCU builds.
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
	Close() error
}

// PinFactory hands out GPIO lines by number.
type PinFactory interface {
	ByNumber(n int) (core.GPIOHandle, bool)
	Close() error
}
