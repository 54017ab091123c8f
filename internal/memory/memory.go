// Package memory implements the layered byte-addressable memory subsystem
// of the osci CPU: a plain array, a sparse address-space multiplexer, and a
// zero-fill fallback wrapper, all behind one Interface.
package memory

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an address falls outside a memory's
// backing region.
var ErrOutOfRange = errors.New("memory: address out of range")

// ErrRangeConflict is returned by MappedMemory.Map when the new interval
// overlaps an existing mapping.
var ErrRangeConflict = errors.New("memory: range conflict")

// ErrNoSuchMapping is returned by MappedMemory.Unmap when no entry starts
// at the given address.
var ErrNoSuchMapping = errors.New("memory: no such mapping")

// Interface is the common contract for a byte-addressable memory.
type Interface interface {
	// Size returns the number of addressable bytes.
	Size() uint32
	// Get returns the byte stored at addr.
	Get(addr uint32) (uint8, error)
	// Set stores v at addr.
	Set(addr uint32, v uint8) error
}

// ArrayMemory is a fixed-size, contiguous, bounds-checked byte buffer.
type ArrayMemory struct {
	bytes []byte
}

// NewArrayMemory allocates an ArrayMemory of the given size. Contents are
// not guaranteed to be zeroed.
func NewArrayMemory(size uint32) *ArrayMemory {
	return &ArrayMemory{bytes: make([]byte, size)}
}

// NewArrayMemoryFromBytes wraps an existing byte slice directly, without
// copying. The resulting memory's size is len(b).
func NewArrayMemoryFromBytes(b []byte) *ArrayMemory {
	return &ArrayMemory{bytes: b}
}

func (m *ArrayMemory) Size() uint32 { return uint32(len(m.bytes)) }

func (m *ArrayMemory) Get(addr uint32) (uint8, error) {
	if addr >= m.Size() {
		return 0, fmt.Errorf("%w: addr 0x%x size 0x%x", ErrOutOfRange, addr, m.Size())
	}
	return m.bytes[addr], nil
}

func (m *ArrayMemory) Set(addr uint32, v uint8) error {
	if addr >= m.Size() {
		return fmt.Errorf("%w: addr 0x%x size 0x%x", ErrOutOfRange, addr, m.Size())
	}
	m.bytes[addr] = v
	return nil
}

// mapEntry is one child mapping within a MappedMemory.
type mapEntry struct {
	start uint32
	child Interface
}

// contains reports whether addr falls within this entry's interval. The
// offset comparison stays correct for an entry that ends exactly at 2^32.
func (e mapEntry) contains(addr uint32) bool {
	return addr >= e.start && addr-e.start < e.child.Size()
}

// overlaps reports whether [start, start+size) overlaps this entry. Ends
// are computed in 64 bits so an interval reaching 2^32 does not wrap to 0.
func (e mapEntry) overlaps(start, size uint32) bool {
	end := uint64(e.start) + uint64(e.child.Size())
	newEnd := uint64(start) + uint64(size)
	return uint64(start) < end && uint64(e.start) < newEnd
}

// MappedMemory is a sparse address-space multiplexer: it composes
// non-overlapping child memories at disjoint offsets of a flat 32-bit
// space and forwards reads/writes to whichever child contains the address.
type MappedMemory struct {
	entries []mapEntry
	size    uint32
}

// NewMappedMemory returns an empty MappedMemory.
func NewMappedMemory() *MappedMemory {
	return &MappedMemory{}
}

// Map installs child at [start, start+child.Size()) of the global address
// space. It fails with ErrRangeConflict if that interval overlaps any
// existing mapping. Abutting (touching but non-overlapping) ranges are
// legal.
func (m *MappedMemory) Map(start uint32, child Interface) error {
	for _, e := range m.entries {
		if e.overlaps(start, child.Size()) {
			return fmt.Errorf("%w: [0x%x,0x%x) overlaps existing [0x%x,0x%x)",
				ErrRangeConflict, start, start+child.Size(), e.start, e.start+e.child.Size())
		}
	}
	m.entries = append(m.entries, mapEntry{start: start, child: child})
	m.recalculateSize()
	return nil
}

// Unmap removes the entry starting exactly at start. It fails with
// ErrNoSuchMapping if no such entry exists.
func (m *MappedMemory) Unmap(start uint32) error {
	for i, e := range m.entries {
		if e.start == start {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			m.recalculateSize()
			return nil
		}
	}
	return fmt.Errorf("%w: no mapping starts at 0x%x", ErrNoSuchMapping, start)
}

// IsMapped reports whether addr falls within some mapped entry.
func (m *MappedMemory) IsMapped(addr uint32) bool {
	_, ok := m.find(addr)
	return ok
}

func (m *MappedMemory) find(addr uint32) (mapEntry, bool) {
	for _, e := range m.entries {
		if e.contains(addr) {
			return e, true
		}
	}
	return mapEntry{}, false
}

func (m *MappedMemory) recalculateSize() {
	var max uint32
	for _, e := range m.entries {
		end := e.start + e.child.Size()
		if end > max {
			max = end
		}
	}
	m.size = max
}

func (m *MappedMemory) Size() uint32 { return m.size }

func (m *MappedMemory) Get(addr uint32) (uint8, error) {
	e, ok := m.find(addr)
	if !ok {
		return 0, fmt.Errorf("%w: addr 0x%x not mapped", ErrOutOfRange, addr)
	}
	return e.child.Get(addr - e.start)
}

func (m *MappedMemory) Set(addr uint32, v uint8) error {
	e, ok := m.find(addr)
	if !ok {
		return fmt.Errorf("%w: addr 0x%x not mapped", ErrOutOfRange, addr)
	}
	return e.child.Set(addr-e.start, v)
}

// ZeroMemory wraps an inner memory and turns out-of-range reads into 0 and
// out-of-range writes into no-ops. Any other error propagates unchanged.
type ZeroMemory struct {
	inner Interface
}

// NewZeroMemory wraps inner.
func NewZeroMemory(inner Interface) *ZeroMemory {
	return &ZeroMemory{inner: inner}
}

func (m *ZeroMemory) Size() uint32 { return m.inner.Size() }

func (m *ZeroMemory) Get(addr uint32) (uint8, error) {
	v, err := m.inner.Get(addr)
	if err != nil {
		if errors.Is(err, ErrOutOfRange) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

func (m *ZeroMemory) Set(addr uint32, v uint8) error {
	err := m.inner.Set(addr, v)
	if err != nil && errors.Is(err, ErrOutOfRange) {
		return nil
	}
	return err
}
