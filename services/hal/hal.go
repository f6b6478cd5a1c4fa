// services/hal/hal.go
package hal

import (
	"context"

	"ltc690x-go/bus"
	"ltc690x-go/services/hal/internal/core"
	"ltc690x-go/services/hal/internal/platform"
	"ltc690x-go/services/hal/internal/platform/setups"
	"ltc690x-go/services/hal/internal/provider"

	// Register device builders.
	_ "ltc690x-go/services/hal/devices/ltc6904"
)

// Plan selects which buses exist and how they are wired.
type Plan = setups.ResourcePlan

// DefaultPlan is the board wiring used when none is given.
var DefaultPlan = setups.Default

// -----------------------------------------------------------------------------
// Entry point
// -----------------------------------------------------------------------------

// Run opens the platform buses for this build target and serves HAL on conn
// until ctx is cancelled. Devices arrive via retained config/hal.
func Run(ctx context.Context, conn *bus.Connection, plan Plan) error {
	i2cF, pinF, err := platform.Open(plan)
	if err != nil {
		println("[hal] platform open failed:", err.Error())
		return err
	}
	return run(ctx, conn, i2cF, pinF)
}

func run(ctx context.Context, conn *bus.Connection, i2cF platform.I2CBusFactory, pinF platform.PinFactory) error {
	reg := provider.NewResourceRegistry(ctx, i2cF, pinF)
	core.NewHAL(conn, provider.NewResources(reg)).Run(ctx)
	if err := reg.Close(); err != nil {
		println("[hal] resource close failed:", err.Error())
		return err
	}
	return nil
}
