package memory

// WriteInt writes v as four little-endian bytes at addr, addr+1, addr+2,
// addr+3 of m. It fails if any of those Set calls fails.
func WriteInt(m Interface, addr uint32, v int32) error {
	u := uint32(v)
	for i := uint32(0); i < 4; i++ {
		if err := m.Set(addr+i, byte(u>>(8*i))); err != nil {
			return err
		}
	}
	return nil
}

// ReadInt reads four little-endian bytes starting at addr and reassembles
// them into a signed 32-bit value. ReadInt(m, addr) after WriteInt(m, addr,
// v) equals v for any v and any memory large enough to hold it.
func ReadInt(m Interface, addr uint32) (int32, error) {
	var u uint32
	for i := uint32(0); i < 4; i++ {
		b, err := m.Get(addr + i)
		if err != nil {
			return 0, err
		}
		u |= uint32(b) << (8 * i)
	}
	return int32(u), nil
}
