package ltc6904

import "testing"

func TestRegister_FieldsAreIndependent(t *testing.T) {
	for oct := uint16(0); oct <= octMax; oct++ {
		for dac := uint16(0); dac <= dacMax; dac++ {
			for cnf := uint16(0); cnf <= cnfMax; cnf++ {
				var r Register
				r.SetCNF(cnf)
				r.SetDAC(dac)
				r.SetOct(oct)
				if r.Oct() != oct || r.DAC() != dac || r.CNF() != cnf {
					t.Fatalf("pack(%d,%d,%d) -> %#04x decodes to (%d,%d,%d)",
						oct, dac, cnf, uint16(r), r.Oct(), r.DAC(), r.CNF())
				}
				want := oct<<octPos | dac<<dacPos | cnf
				if uint16(r) != want {
					t.Fatalf("pack(%d,%d,%d) = %#04x, want %#04x", oct, dac, cnf, uint16(r), want)
				}
			}
		}
	}
}

func TestRegister_SetterPreservesOtherBits(t *testing.T) {
	r := Register(0xFFFF)
	r.SetOct(0)
	if r != 0x0FFF {
		t.Fatalf("SetOct(0) on 0xFFFF = %#04x, want 0x0FFF", uint16(r))
	}
	r = Register(0xFFFF)
	r.SetDAC(0)
	if r != 0xF003 {
		t.Fatalf("SetDAC(0) on 0xFFFF = %#04x, want 0xF003", uint16(r))
	}
	r = Register(0xFFFF)
	r.SetCNF(0)
	if r != 0xFFFC {
		t.Fatalf("SetCNF(0) on 0xFFFF = %#04x, want 0xFFFC", uint16(r))
	}
}

func TestRegister_OversizedValueDoesNotBleed(t *testing.T) {
	var r Register
	r.SetCNF(0xFF)
	if r.DAC() != 0 || r.Oct() != 0 {
		t.Fatalf("oversized CNF leaked: %#04x", uint16(r))
	}
	r.SetDAC(0xFFFF)
	if r.Oct() != 0 || r.CNF() != cnfMax {
		t.Fatalf("oversized DAC leaked: %#04x", uint16(r))
	}
}

func TestRegister_WireForm(t *testing.T) {
	if got := Register(0x1234).Bytes(); got != [2]byte{0x12, 0x34} {
		t.Fatalf("Bytes() = % x, want 12 34", got)
	}
	if got := RegisterFromBytes([2]byte{0xAB, 0xCD}); got != 0xABCD {
		t.Fatalf("RegisterFromBytes = %#04x, want 0xABCD", uint16(got))
	}
}

func TestOutputSettings_Bijection(t *testing.T) {
	cases := []struct {
		bits uint16
		want OutputSettings
		name string
	}{
		{0, ClkNeg, "clk_neg"},
		{1, ClkBoth, "clk_both"},
		{2, ClkPos, "clk_pos"},
		{3, PowerDown, "power_down"},
	}
	for _, c := range cases {
		s := OutputSettingsFromBits(c.bits)
		if s != c.want {
			t.Fatalf("FromBits(%d) = %v, want %v", c.bits, s, c.want)
		}
		if s.Bits() != c.bits {
			t.Fatalf("%v.Bits() = %d, want %d", s, s.Bits(), c.bits)
		}
		if s.String() != c.name {
			t.Fatalf("%d.String() = %q, want %q", c.bits, s.String(), c.name)
		}
		if p, ok := ParseOutputSettings(c.name); !ok || p != s {
			t.Fatalf("ParseOutputSettings(%q) = %v,%v", c.name, p, ok)
		}
	}
	if _, ok := ParseOutputSettings("both"); ok {
		t.Fatal("ParseOutputSettings accepted unknown name")
	}
}
