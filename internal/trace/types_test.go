package trace

import "testing"

func TestTagsAddIsIdempotent(t *testing.T) {
	var tags Tags
	tags.Add(Step)
	tags.Add(Step)
	tags.Add(Jump)
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}
	if !tags.Has(Step) || !tags.Has(Jump) {
		t.Fatalf("tags = %v, want Step and Jump", tags)
	}
}

func TestEventPrimaryTag(t *testing.T) {
	e := NewEvent(0x1000, "step", 7)
	if got := e.PrimaryTag(); got != "#step" {
		t.Fatalf("PrimaryTag() = %q, want #step", got)
	}
}

func TestDefaultEnricherTagsJumpOnNonPositiveDiff(t *testing.T) {
	e := NewEvent(0, "step", 0)
	DefaultEnricher(e)
	if !e.Tags.Has(Jump) {
		t.Fatalf("tags = %v, want Jump for diff=0", e.Tags)
	}

	e = NewEvent(0, "step", 5)
	DefaultEnricher(e)
	if !e.Tags.Has(Fallthrough) {
		t.Fatalf("tags = %v, want Fallthrough for diff=5", e.Tags)
	}
}

func TestAnnotationsRoundTrip(t *testing.T) {
	a := make(Annotations)
	a.Set("reg", "r0")
	if !a.Has("reg") {
		t.Fatalf("Has(reg) = false after Set")
	}
	if got := a.Get("reg"); got != "r0" {
		t.Fatalf("Get(reg) = %q, want r0", got)
	}
}
