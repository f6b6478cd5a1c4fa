package ltc6904

// OutputSettings is the CNF output configuration. The numeric values are the
// field encodings.
type OutputSettings uint8

const (
	ClkNeg    OutputSettings = 0 // negative edge
	ClkBoth   OutputSettings = 1 // both edges
	ClkPos    OutputSettings = 2 // positive edge
	PowerDown OutputSettings = 3 // output disabled
)

// OutputSettingsFromBits maps a raw CNF value onto the enumeration.
// Only the low two bits are considered, so every input has exactly one result.
func OutputSettingsFromBits(v uint16) OutputSettings { return OutputSettings(v & cnfMax) }

// Bits returns the raw CNF value.
func (s OutputSettings) Bits() uint16 { return uint16(s) & cnfMax }

func (s OutputSettings) String() string {
	switch s.Bits() {
	case 0:
		return "clk_neg"
	case 1:
		return "clk_both"
	case 2:
		return "clk_pos"
	default:
		return "power_down"
	}
}

// ParseOutputSettings accepts the names produced by String.
func ParseOutputSettings(name string) (OutputSettings, bool) {
	switch name {
	case "clk_neg":
		return ClkNeg, true
	case "clk_both":
		return ClkBoth, true
	case "clk_pos":
		return ClkPos, true
	case "power_down":
		return PowerDown, true
	default:
		return 0, false
	}
}
