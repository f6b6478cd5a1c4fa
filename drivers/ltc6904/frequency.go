package ltc6904

import "ltc690x-go/x/mathx"

// Supported output range in Hz (inclusive).
const (
	FreqMin uint32 = 1_039
	FreqMax uint32 = 68_030_000
)

// FrequencyError reports a request outside [FreqMin, FreqMax].
type FrequencyError uint8

const (
	ErrFrequencyTooLow FrequencyError = iota + 1
	ErrFrequencyTooHigh
)

func (e FrequencyError) Error() string {
	switch e {
	case ErrFrequencyTooLow:
		return "ltc6904: frequency too low"
	case ErrFrequencyTooHigh:
		return "ltc6904: frequency too high"
	default:
		return "ltc6904: frequency out of range"
	}
}

type band struct{ min, max uint32 }

// Published per-octave ranges (Hz, inclusive), datasheet table 1.
var octaves = [16]band{
	/* 0 */ {1_039, 2_076},
	/* 1 */ {2_078, 4_152},
	/* 2 */ {4_156, 8_304},
	/* 3 */ {8_312, 16_610},
	/* 4 */ {16_620, 33_220},
	/* 5 */ {33_250, 66_430},
	/* 6 */ {66_500, 132_900},
	/* 7 */ {133_000, 265_700},
	/* 8 */ {266_000, 531_400},
	/* 9 */ {532_000, 1_063_000},
	/* 10 */ {1_064_000, 2_126_000},
	/* 11 */ {2_128_000, 4_252_000},
	/* 12 */ {4_256_000, 8_503_000},
	/* 13 */ {8_511_000, 17_010_000},
	/* 14 */ {17_020_000, 34_010_000},
	/* 15 */ {34_050_000, 68_030_000},
}

// OctaveRange returns the published inclusive range for oct (0..15).
func OctaveRange(oct uint16) (min, max uint32) {
	b := octaves[oct&octMax]
	return b.min, b.max
}

// Octave returns the OCT value for f. Bands are scanned in increasing order and
// the first band containing f wins. The published bands leave small holes
// between neighbours; a frequency in a hole takes the band whose edge is nearer,
// ties going to the lower band.
func Octave(f uint32) (uint16, error) {
	if f < FreqMin {
		return 0, ErrFrequencyTooLow
	}
	if f > FreqMax {
		return 0, ErrFrequencyTooHigh
	}
	for i, b := range octaves {
		if mathx.Between(f, b.min, b.max) {
			return uint16(i), nil
		}
	}
	for i := 0; i < len(octaves)-1; i++ {
		lo, hi := octaves[i], octaves[i+1]
		if f > lo.max && f < hi.min {
			if f-lo.max <= hi.min-f {
				return uint16(i), nil
			}
			return uint16(i + 1), nil
		}
	}
	// Unreachable with a gap-free [FreqMin, FreqMax] check above.
	return 0, ErrFrequencyTooLow
}

// DAC returns the 10-bit DAC code for f in octave oct:
//
//	dac = 2048 - (2078 * 2^(10+oct)) / f
//
// using truncating division. Truncation can land one count past either end of
// the field at band edges, so the result is saturated to [0, 1023].
func DAC(f uint32, oct uint16) uint16 {
	if f == 0 {
		return 0
	}
	q := (uint64(2078) << (10 + uint64(oct&octMax))) / uint64(f)
	if q >= 2048 {
		return 0
	}
	return uint16(mathx.Min(2048-q, dacMax))
}

// Encode maps f onto its (OCT, DAC) pair.
func Encode(f uint32) (oct, dac uint16, err error) {
	oct, err = Octave(f)
	if err != nil {
		return 0, 0, err
	}
	return oct, DAC(f, oct), nil
}

// OutputHz is the nominal frequency the chip synthesises for (oct, dac):
//
//	f = 2078 * 2^oct / (2 - dac/1024)
//
// rounded down to a whole Hz.
func OutputHz(oct, dac uint16) uint32 {
	num := uint64(2078) << (10 + uint64(oct&octMax))
	return uint32(num / (2048 - uint64(dac&dacMax)))
}
