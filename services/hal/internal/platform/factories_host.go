// services/hal/internal/platform/factories_host.go
//go:build !linux && !rp2040 && !rp2350

package platform

import "ltc690x-go/services/hal/internal/platform/setups"

// Open returns emulated buses and pins on hosts without real hardware.
func Open(plan setups.ResourcePlan) (I2CBusFactory, PinFactory, error) {
	return NewFakeI2CFactory(plan), &FakePinFactory{}, nil
}
