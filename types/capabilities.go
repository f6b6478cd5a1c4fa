package types

// ------------------------
// Capability addressing & kinds
// ------------------------

type Kind string

const (
	KindOscillator Kind = "oscillator"
)

// CapabilityAddress identifies a public capability on the bus.
type CapabilityAddress struct {
	Domain string `json:"domain"` // e.g. "clock"
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
}
