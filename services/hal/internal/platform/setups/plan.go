package setups

// ResourcePlan specifies wiring and operating parameters chosen by a setup.
// Platform factories consume this plan to instantiate buses.
type ResourcePlan struct {
	I2C []I2CPlan
}

type I2CPlan struct {
	ID  string // logical id used in device params, e.g. "i2c0"
	SDA int    // GPIO number (MCU builds)
	SCL int    // GPIO number (MCU builds)
	Hz  uint32 // bus frequency (MCU builds)
	Dev string // periph bus name on Linux, e.g. "1" or "/dev/i2c-1"
}

// ByID returns the plan entry for id.
func (p ResourcePlan) ByID(id string) (I2CPlan, bool) {
	for _, b := range p.I2C {
		if b.ID == id {
			return b, true
		}
	}
	return I2CPlan{}, false
}
