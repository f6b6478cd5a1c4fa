package ltc6904

// Register layout (MSB first): OCT[15:12] | DAC[11:2] | CNF[1:0].
const (
	octPos  = 12
	octSize = 4
	dacPos  = 2
	dacSize = 10
	cnfPos  = 0
	cnfSize = 2

	octMask uint16 = 0b1111_0000_0000_0000
	dacMask uint16 = 0b0000_1111_1111_1100
	cnfMask uint16 = 0b0000_0000_0000_0011

	octMax = 1<<octSize - 1
	dacMax = 1<<dacSize - 1
	cnfMax = 1<<cnfSize - 1
)

// Register is the 16-bit configuration word of the LTC6904.
// Setters clear only their own field; the other bits are preserved.
type Register uint16

func (r Register) Oct() uint16 { return (uint16(r) & octMask) >> octPos }
func (r Register) DAC() uint16 { return (uint16(r) & dacMask) >> dacPos }
func (r Register) CNF() uint16 { return (uint16(r) & cnfMask) >> cnfPos }

// SetOct stores the octave selector. Values wider than 4 bits are truncated.
func (r *Register) SetOct(v uint16) { r.set(octMask, octPos, v) }

// SetDAC stores the fine frequency value. Values wider than 10 bits are truncated.
func (r *Register) SetDAC(v uint16) { r.set(dacMask, dacPos, v) }

// SetCNF stores the raw output configuration bits.
func (r *Register) SetCNF(v uint16) { r.set(cnfMask, cnfPos, v) }

func (r *Register) set(mask uint16, pos uint, v uint16) {
	*r = Register((uint16(*r) &^ mask) | ((v << pos) & mask))
}

// Bytes returns the wire form: MSB first.
func (r Register) Bytes() [2]byte { return [2]byte{byte(r >> 8), byte(r)} }

// RegisterFromBytes decodes the 2-byte big-endian wire form.
func RegisterFromBytes(b [2]byte) Register { return Register(uint16(b[0])<<8 | uint16(b[1])) }
