package script

import (
	"testing"

	"github.com/oscimu/osciemu/internal/osci"
)

func TestBreakpointEvalRegisterComparison(t *testing.T) {
	bp, err := Compile("r0 > 10")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	snap := osci.Snapshot{IP: 0x100, Registers: []uint32{11, 0, 0, 0}}
	hit, err := bp.Eval(snap, false)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if !hit {
		t.Fatalf("Eval(r0=11) = false, want true for %q", bp)
	}

	snap.Registers[0] = 5
	hit, err = bp.Eval(snap, false)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if hit {
		t.Fatalf("Eval(r0=5) = true, want false for %q", bp)
	}
}

func TestBreakpointEvalHalted(t *testing.T) {
	bp, err := Compile("halted")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	hit, err := bp.Eval(osci.Snapshot{}, true)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if !hit {
		t.Fatalf("Eval(halted=true) = false, want true")
	}
}

func TestBreakpointEvalIP(t *testing.T) {
	bp, err := Compile("ip == 0x1000")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	hit, err := bp.Eval(osci.Snapshot{IP: 0x1000}, false)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if !hit {
		t.Fatalf("Eval(ip==0x1000) = false, want true")
	}
}

func TestCompileInvalidExpression(t *testing.T) {
	if _, err := Compile("r0 >"); err == nil {
		t.Fatalf("Compile of invalid expression succeeded, want error")
	}
}
