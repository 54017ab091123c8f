package osci

import (
	"github.com/oscimu/osciemu/internal/memory"
	"github.com/oscimu/osciemu/internal/oscilog"
)

// Default layout parameters (spec.md §3): N_REG=4, N_IVT=1, N_FLAGS=1.
// NewLayout/DefaultLayout (layout.go) compute the boundaries these feed
// into; config.Config.Layout() recomputes the same boundaries for
// non-default parameter sets and New takes the result directly.
const (
	NumRegisters = 4
	NumIVT       = 1
	NumFlags     = 1

	MaxAddr = 0xFFFFFFFF
	// BiosBound is where the BIOS image is mapped at reset, 2^31.
	BiosBound uint32 = 1 << 31
)

// Flag bit positions within flag word 0, byte 0.
const (
	flagHalt     = 1 << 0
	flagBiosDone = 1 << 1
)

// Snapshot is a point-in-time view of the CPU-visible state: the
// instruction pointer and the register file. Registers has length
// Layout.NumRegisters.
type Snapshot struct {
	IP        uint32
	Registers []uint32
}

// Emulator wires a RAM image and a BIOS image into the osci address space
// and sequences the fetch-execute loop. Emulator implements
// memory.Interface itself, so the CPU can read and write its own address
// space (including the instructions it is executing).
type Emulator struct {
	ip      uint32
	layout  Layout
	mapped  *memory.MappedMemory
	zero    *memory.ZeroMemory
	bios    memory.Interface
	control *memory.ArrayMemory
	log     *oscilog.Logger
}

// New wires main (RAM) at address 0 and bios at layout.BiosBound, with a
// small control region backing the flag/IVT/register window at the top of
// the address space. ip starts at layout.BiosBound.
func New(main, bios memory.Interface, layout Layout) (*Emulator, error) {
	control := memory.NewArrayMemory(layout.MaxAddr - layout.FlagBound + 1)

	mapped := memory.NewMappedMemory()
	if err := mapped.Map(0, main); err != nil {
		return nil, err
	}
	if err := mapped.Map(layout.BiosBound, bios); err != nil {
		return nil, err
	}
	if err := mapped.Map(layout.FlagBound, control); err != nil {
		return nil, err
	}

	return &Emulator{
		ip:      layout.BiosBound,
		layout:  layout,
		mapped:  mapped,
		zero:    memory.NewZeroMemory(mapped),
		bios:    bios,
		control: control,
	}, nil
}

// SetLogger attaches a logger that Step, Set (for flag writes) and the
// BIOS map/unmap transition report through. A nil logger (the zero value)
// disables reporting.
func (e *Emulator) SetLogger(l *oscilog.Logger) { e.log = l }

// IP returns the current instruction pointer.
func (e *Emulator) IP() uint32 { return e.ip }

// Layout returns the address-space boundaries this emulator was built
// with.
func (e *Emulator) Layout() Layout { return e.layout }

// Size reports the full virtual address space (MaxAddr), not the sum of
// backed regions — an inaccuracy spec.md itself flags and this
// reimplementation preserves rather than silently fixing (see DESIGN.md).
func (e *Emulator) Size() uint32 { return e.layout.MaxAddr }

// Get reads a byte through the zero-fill façade over the mapped address
// space; addresses outside any mapped region read as 0.
func (e *Emulator) Get(addr uint32) (uint8, error) {
	return e.zero.Get(addr)
}

// Set writes a byte through the zero-fill façade; addresses outside any
// mapped region are silently dropped. Writes landing in the flag region
// additionally trigger flag reconciliation after the write completes.
func (e *Emulator) Set(addr uint32, v uint8) error {
	if err := e.zero.Set(addr, v); err != nil {
		return err
	}
	if addr >= e.layout.FlagBound && addr < e.layout.IVTBound {
		if e.log != nil {
			e.log.FlagChange(addr, v)
		}
		return e.processFlagChanges()
	}
	return nil
}

// processFlagChanges reconciles the BIOS mapping against flag word 0's bD
// bit. It is idempotent: Map/Unmap are only invoked when the current state
// disagrees with the desired one.
func (e *Emulator) processFlagChanges() error {
	flag, err := e.Get(e.layout.FlagBound)
	if err != nil {
		return err
	}
	wantMapped := flag&flagBiosDone == 0
	isMapped := e.mapped.IsMapped(e.layout.BiosBound)

	if wantMapped && !isMapped {
		if err := e.mapped.Map(e.layout.BiosBound, e.bios); err != nil {
			return err
		}
		if e.log != nil {
			e.log.BiosMap(true)
		}
		return nil
	}
	if !wantMapped && isMapped {
		if err := e.mapped.Unmap(e.layout.BiosBound); err != nil {
			return err
		}
		if e.log != nil {
			e.log.BiosMap(false)
		}
		return nil
	}
	return nil
}

// IsHalted reports whether the H bit of flag word 0 is set.
func (e *Emulator) IsHalted() (bool, error) {
	flag, err := e.Get(e.layout.FlagBound)
	if err != nil {
		return false, err
	}
	return flag&flagHalt == flagHalt, nil
}

// Step executes one instruction at the current ip. A faulted memory access
// during the step surfaces as an error here; the emulator does not trap
// it — callers that want to keep running must handle the error themselves.
func (e *Emulator) Step() error {
	ipBefore := e.ip
	in, err := ReadInstructionFrom(e, ipBefore)
	if err != nil {
		return err
	}

	if err := Execute(e, &e.ip); err != nil {
		return err
	}

	if e.log != nil {
		diff, err := memory.ReadInt(e, in.Target)
		if err == nil {
			e.log.Step(ipBefore, diff)
		}
	}
	return nil
}

// RegisterSnapshot reads ip and the register file through the codec,
// without mutating emulator state.
func (e *Emulator) RegisterSnapshot() (Snapshot, error) {
	snap := Snapshot{IP: e.ip, Registers: make([]uint32, e.layout.NumRegisters)}
	for i := uint32(0); i < e.layout.NumRegisters; i++ {
		addr := e.layout.RegBound + i*WordSize
		v, err := memory.ReadInt(e, addr)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Registers[i] = uint32(v)
	}
	return snap, nil
}
