package setups

// Default wires the oscillator bus used by the demo board: i2c0 on GP4/GP5
// for Pico builds, /dev/i2c-1 on Linux.
var Default = ResourcePlan{
	I2C: []I2CPlan{
		{ID: "i2c0", SDA: 4, SCL: 5, Hz: 400_000, Dev: "1"},
		{ID: "i2c1", SDA: 18, SCL: 19, Hz: 400_000, Dev: "0"},
	},
}
