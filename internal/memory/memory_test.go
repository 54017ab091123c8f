package memory

import (
	"errors"
	"testing"
)

func TestArrayMemoryBounds(t *testing.T) {
	m := NewArrayMemory(512)
	if m.Size() != 512 {
		t.Fatalf("Size() = %d, want 512", m.Size())
	}

	if err := m.Set(0, 5); err != nil {
		t.Fatalf("Set(0, 5) failed: %v", err)
	}
	if v, err := m.Get(0); err != nil || v != 5 {
		t.Fatalf("Get(0) = %d, %v; want 5, nil", v, err)
	}

	maxAddr := m.Size() - 1
	if err := m.Set(maxAddr, 9); err != nil {
		t.Fatalf("Set(maxAddr, 9) failed: %v", err)
	}
	if v, err := m.Get(maxAddr); err != nil || v != 9 {
		t.Fatalf("Get(maxAddr) = %d, %v; want 9, nil", v, err)
	}
}

func TestArrayMemoryOutOfRange(t *testing.T) {
	m := NewArrayMemory(4)
	if _, err := m.Get(4); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Get(4) err = %v, want ErrOutOfRange", err)
	}
	if err := m.Set(4, 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Set(4, 1) err = %v, want ErrOutOfRange", err)
	}
}

func TestMappedMemoryComposition(t *testing.T) {
	mm := NewMappedMemory()
	if mm.Size() != 0 {
		t.Fatalf("empty Size() = %d, want 0", mm.Size())
	}
	if mm.IsMapped(0) {
		t.Fatalf("IsMapped(0) = true on empty map")
	}

	a := NewArrayMemory(128)
	if err := mm.Map(0, a); err != nil {
		t.Fatalf("Map(0, a) failed: %v", err)
	}
	if mm.Size() != 128 {
		t.Fatalf("Size() = %d, want 128", mm.Size())
	}

	b := NewArrayMemory(512)
	if err := mm.Map(512, b); err != nil {
		t.Fatalf("Map(512, b) failed: %v", err)
	}
	if mm.Size() != 1024 {
		t.Fatalf("Size() = %d, want 1024", mm.Size())
	}

	if err := mm.Unmap(0); err != nil {
		t.Fatalf("Unmap(0) failed: %v", err)
	}
	if mm.Size() != 1024 {
		t.Fatalf("Size() after Unmap(0) = %d, want 1024", mm.Size())
	}
}

func TestMappedMemoryDistributesReadsAndWrites(t *testing.T) {
	mm := NewMappedMemory()
	m1 := NewArrayMemory(16)
	m2 := NewArrayMemory(16)
	if err := mm.Map(0, m1); err != nil {
		t.Fatalf("Map(0, m1) failed: %v", err)
	}
	if err := mm.Map(16, m2); err != nil {
		t.Fatalf("Map(16, m2) failed: %v", err)
	}

	for i := uint32(0); i < 32; i++ {
		if err := mm.Set(i, byte(128+i)); err != nil {
			t.Fatalf("Set(%d) failed: %v", i, err)
		}
	}

	for i := uint32(0); i < 32; i++ {
		v, err := mm.Get(i)
		if err != nil || v != byte(128+i) {
			t.Fatalf("Get(%d) = %d, %v; want %d, nil", i, v, err, byte(128+i))
		}
	}

	for i := uint32(0); i < 16; i++ {
		v, _ := m1.Get(i)
		if v != byte(128+i) {
			t.Fatalf("m1.Get(%d) = %d, want %d", i, v, byte(128+i))
		}
	}
	for i := uint32(0); i < 16; i++ {
		v, _ := m2.Get(i)
		if v != byte(128+16+i) {
			t.Fatalf("m2.Get(%d) = %d, want %d", i, v, byte(128+16+i))
		}
	}
}

func TestMappedMemoryIsMapped(t *testing.T) {
	mm := NewMappedMemory()
	m1 := NewArrayMemory(8)

	for _, addr := range []uint32{0, 8, 15, 16} {
		if mm.IsMapped(addr) {
			t.Fatalf("IsMapped(%d) = true before mapping", addr)
		}
	}

	if err := mm.Map(8, m1); err != nil {
		t.Fatalf("Map(8, m1) failed: %v", err)
	}

	cases := map[uint32]bool{0: false, 8: true, 15: true, 16: false}
	for addr, want := range cases {
		if got := mm.IsMapped(addr); got != want {
			t.Fatalf("IsMapped(%d) = %v, want %v", addr, got, want)
		}
	}
}

func TestMappedMemoryOverlapRejected(t *testing.T) {
	t.Run("low-into-high", func(t *testing.T) {
		mm := NewMappedMemory()
		m1, m2 := NewArrayMemory(16), NewArrayMemory(16)
		if err := mm.Map(0, m1); err != nil {
			t.Fatalf("Map(0, m1) failed: %v", err)
		}
		if err := mm.Map(15, m2); !errors.Is(err, ErrRangeConflict) {
			t.Fatalf("Map(15, m2) err = %v, want ErrRangeConflict", err)
		}
	})

	t.Run("high-into-low", func(t *testing.T) {
		mm := NewMappedMemory()
		m1, m2 := NewArrayMemory(16), NewArrayMemory(16)
		if err := mm.Map(15, m1); err != nil {
			t.Fatalf("Map(15, m1) failed: %v", err)
		}
		if err := mm.Map(0, m2); !errors.Is(err, ErrRangeConflict) {
			t.Fatalf("Map(0, m2) err = %v, want ErrRangeConflict", err)
		}
	})
}

func TestMappedMemoryAbuttingRangesAllowed(t *testing.T) {
	mm := NewMappedMemory()
	a := NewArrayMemory(128)
	b := NewArrayMemory(512)
	if err := mm.Map(0, a); err != nil {
		t.Fatalf("Map(0, a) failed: %v", err)
	}
	if err := mm.Map(128, b); err != nil {
		t.Fatalf("abutting Map(128, b) failed: %v", err)
	}
}

func TestMappedMemoryUnmapUnknown(t *testing.T) {
	mm := NewMappedMemory()
	if err := mm.Unmap(0); !errors.Is(err, ErrNoSuchMapping) {
		t.Fatalf("Unmap(0) err = %v, want ErrNoSuchMapping", err)
	}
}

func TestZeroMemoryFallback(t *testing.T) {
	inner := NewArrayMemory(16)
	z := NewZeroMemory(inner)

	if z.Size() != inner.Size() {
		t.Fatalf("Size() = %d, want %d", z.Size(), inner.Size())
	}

	if v, err := z.Get(1000); err != nil || v != 0 {
		t.Fatalf("Get(1000) = %d, %v; want 0, nil", v, err)
	}

	if err := z.Set(1000, 42); err != nil {
		t.Fatalf("Set(1000, 42) returned error: %v", err)
	}
	if v, _ := z.Get(1000); v != 0 {
		t.Fatalf("out-of-range Set persisted a value: Get(1000) = %d", v)
	}

	if err := z.Set(0, 7); err != nil {
		t.Fatalf("in-range Set(0, 7) failed: %v", err)
	}
	if v, err := z.Get(0); err != nil || v != 7 {
		t.Fatalf("Get(0) = %d, %v; want 7, nil", v, err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 0x55AA9966, -2147483648, 2147483647, 81}
	for _, v := range values {
		m := NewArrayMemory(8)
		if err := WriteInt(m, 0, v); err != nil {
			t.Fatalf("WriteInt(%d) failed: %v", v, err)
		}
		got, err := ReadInt(m, 0)
		if err != nil {
			t.Fatalf("ReadInt after WriteInt(%d) failed: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip for %d produced %d", v, got)
		}
	}
}

func TestCodecLittleEndianByteOrder(t *testing.T) {
	m := NewArrayMemory(4)
	if err := WriteInt(m, 0, 0x04030201); err != nil {
		t.Fatalf("WriteInt failed: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	for i, w := range want {
		got, _ := m.Get(uint32(i))
		if got != w {
			t.Fatalf("byte %d = 0x%02x, want 0x%02x", i, got, w)
		}
	}
}
