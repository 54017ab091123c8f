// Package script evaluates user-supplied JavaScript boolean expressions
// against a CPU register snapshot, for step-mode breakpoint and watch
// conditions.
package script

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/oscimu/osciemu/internal/osci"
)

// Breakpoint wraps a compiled goja program that evaluates to a boolean
// each time Eval is called with a fresh register snapshot.
type Breakpoint struct {
	source string
	prog   *goja.Program
}

// Compile parses expr as a JavaScript expression. expr may reference ip,
// r0..r3 and halted; they are bound fresh on every Eval call.
func Compile(expr string) (*Breakpoint, error) {
	prog, err := goja.Compile("breakpoint", expr, false)
	if err != nil {
		return nil, fmt.Errorf("script: compile %q: %w", expr, err)
	}
	return &Breakpoint{source: expr, prog: prog}, nil
}

// String returns the original expression text.
func (b *Breakpoint) String() string { return b.source }

// Eval binds snap's fields into a fresh VM and runs the compiled
// expression, returning its truthiness.
func (b *Breakpoint) Eval(snap osci.Snapshot, halted bool) (bool, error) {
	vm := goja.New()
	if err := vm.Set("ip", snap.IP); err != nil {
		return false, err
	}
	for i, r := range snap.Registers {
		if err := vm.Set(fmt.Sprintf("r%d", i), r); err != nil {
			return false, err
		}
	}
	if err := vm.Set("halted", halted); err != nil {
		return false, err
	}

	v, err := vm.RunProgram(b.prog)
	if err != nil {
		return false, fmt.Errorf("script: eval %q: %w", b.source, err)
	}
	return v.ToBoolean(), nil
}
