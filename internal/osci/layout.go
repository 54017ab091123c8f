package osci

// Layout is the computed osci address-space boundary set: the derived
// constants spec.md §3 defines from a register count, an IVT slot count
// and a flag-bit count (all multiples of WordSize), plus the register
// count itself (needed to size a RegisterSnapshot).
type Layout struct {
	MaxAddr      uint32
	FlagBound    uint32
	IVTBound     uint32
	RegBound     uint32
	BiosBound    uint32
	NumRegisters uint32
}

// DefaultLayout is the layout spec.md fixes: N_REG=4, N_IVT=1, N_FLAGS=1,
// WORD=4.
func DefaultLayout() Layout {
	return NewLayout(NumRegisters, NumIVT, NumFlags)
}

// NewLayout computes the boundary constants for the given register, IVT
// and flag-bit counts, using the fixed word size WordSize.
func NewLayout(numRegisters, numIVT, numFlags uint32) Layout {
	const maxAddr uint32 = MaxAddr
	regBound := maxAddr - numRegisters*WordSize + 1
	ivtBound := regBound - numIVT*WordSize
	flagBound := ivtBound - ceilDiv(numFlags, 32)*WordSize

	return Layout{
		MaxAddr:      maxAddr,
		FlagBound:    flagBound,
		IVTBound:     ivtBound,
		RegBound:     regBound,
		BiosBound:    BiosBound,
		NumRegisters: numRegisters,
	}
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
