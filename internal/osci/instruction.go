// Package osci implements the osci CPU: a single "subtract and branch if
// less-than-or-equal-zero" instruction executed against a layered memory
// subsystem with a memory-mapped control-flag region.
package osci

import "github.com/oscimu/osciemu/internal/memory"

const (
	// WordSize is the width in bytes of one 32-bit little-endian word.
	WordSize = 4
	// InstructionSize is the width in bytes of one Instruction (4 words).
	InstructionSize = 4 * WordSize
)

// Instruction is the osci CPU's only opcode:
//
//	*Target := *OperandA - *OperandB
//	if *Target <= 0: goto Jmp
type Instruction struct {
	OperandA uint32
	OperandB uint32
	Target   uint32
	Jmp      uint32
}

// WriteTo serializes the instruction to m starting at addr, as four
// little-endian words at offsets 0, 4, 8 and 12.
func (in Instruction) WriteTo(m memory.Interface, addr uint32) error {
	if err := memory.WriteInt(m, addr+0, int32(in.OperandA)); err != nil {
		return err
	}
	if err := memory.WriteInt(m, addr+4, int32(in.OperandB)); err != nil {
		return err
	}
	if err := memory.WriteInt(m, addr+8, int32(in.Target)); err != nil {
		return err
	}
	return memory.WriteInt(m, addr+12, int32(in.Jmp))
}

// ReadInstructionFrom deserializes an Instruction from m starting at addr.
func ReadInstructionFrom(m memory.Interface, addr uint32) (Instruction, error) {
	a, err := memory.ReadInt(m, addr+0)
	if err != nil {
		return Instruction{}, err
	}
	b, err := memory.ReadInt(m, addr+4)
	if err != nil {
		return Instruction{}, err
	}
	t, err := memory.ReadInt(m, addr+8)
	if err != nil {
		return Instruction{}, err
	}
	j, err := memory.ReadInt(m, addr+12)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		OperandA: uint32(a),
		OperandB: uint32(b),
		Target:   uint32(t),
		Jmp:      uint32(j),
	}, nil
}

// alignUpInstruction rounds jmp up to the next multiple of InstructionSize.
// A jmp that is already aligned is returned unchanged.
func alignUpInstruction(jmp uint32) uint32 {
	rem := jmp % InstructionSize
	if rem == 0 {
		return jmp
	}
	return jmp + (InstructionSize - rem)
}

// Execute fetches the instruction at *ip, runs it against m, and updates
// *ip per the branch rule. Execution order is: fetch, operand reads, target
// write, ip update — the target write may have side effects (via m.Set)
// that are visible before ip is updated. Execute is not transactional: if
// the target write fails, *ip is left unchanged.
func Execute(m memory.Interface, ip *uint32) error {
	in, err := ReadInstructionFrom(m, *ip)
	if err != nil {
		return err
	}

	a, err := memory.ReadInt(m, in.OperandA)
	if err != nil {
		return err
	}
	b, err := memory.ReadInt(m, in.OperandB)
	if err != nil {
		return err
	}

	diff := a - b
	if err := memory.WriteInt(m, in.Target, diff); err != nil {
		return err
	}

	if diff <= 0 {
		*ip = alignUpInstruction(in.Jmp)
	} else {
		*ip += InstructionSize
	}
	return nil
}
