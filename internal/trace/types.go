// Package trace provides types for CPU step trace event collection and
// analysis.
package trace

import "time"

// Tag represents a trace event category.
// Tags are stored without # prefix; the prefix is added on rendering.
type Tag string

// Standard tags for trace events.
const (
	Step        Tag = "step"
	Fallthrough Tag = "fallthrough"
	Jump        Tag = "jump"
	Halt        Tag = "halt"
	FlagWrite   Tag = "flag-write"
	BiosMap     Tag = "bios-map"
	BiosUnmap   Tag = "bios-unmap"
	Breakpoint  Tag = "breakpoint"
)

// Tags is a collection of tags with helper methods.
type Tags []Tag

// Has returns true if the tag collection contains the given tag.
func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add adds a tag if not already present.
func (t *Tags) Add(tag Tag) {
	if !t.Has(tag) {
		*t = append(*t, tag)
	}
}

// Strings returns tags as strings with # prefix for display.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = "#" + string(tag)
	}
	return out
}

// Raw returns tags as strings without # prefix.
func (t Tags) Raw() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = string(tag)
	}
	return out
}

// Primary returns the first tag or empty string if none.
func (t Tags) Primary() Tag {
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// Annotations holds key-value metadata for trace events.
type Annotations map[string]string

// Set adds or updates an annotation.
func (a Annotations) Set(k, v string) {
	a[k] = v
}

// Get retrieves an annotation value.
func (a Annotations) Get(k string) string {
	return a[k]
}

// Has returns true if the annotation exists.
func (a Annotations) Has(k string) bool {
	_, ok := a[k]
	return ok
}

// Event represents one executed instruction, or one of the side effects it
// triggers (a flag write, a BIOS map/unmap), with rich metadata.
type Event struct {
	IP          uint32      // instruction pointer at the time of the event
	Tags        Tags        // multiple hashtags, first is primary
	Diff        int32       // result of the subtract, for Step events
	Annotations Annotations // key-value metadata
	Timestamp   time.Time   // when the event occurred
}

// NewEvent creates a new trace event with the given parameters.
func NewEvent(ip uint32, category string, diff int32) *Event {
	return &Event{
		IP:          ip,
		Tags:        Tags{Tag(category)},
		Diff:        diff,
		Annotations: make(Annotations),
		Timestamp:   time.Now(),
	}
}

// AddTag adds a tag to the event.
func (e *Event) AddTag(tag Tag) {
	e.Tags.Add(tag)
}

// Annotate sets an annotation on the event.
func (e *Event) Annotate(k, v string) {
	if e.Annotations == nil {
		e.Annotations = make(Annotations)
	}
	e.Annotations.Set(k, v)
}

// PrimaryTag returns the primary (first) tag with # prefix.
func (e *Event) PrimaryTag() string {
	if len(e.Tags) > 0 {
		return "#" + string(e.Tags[0])
	}
	return ""
}

// Enricher enriches trace events based on category and diff.
type Enricher func(e *Event)

// DefaultEnricher adds a branch-direction tag to step events, based on the
// branch rule: diff <= 0 jumps, diff > 0 falls through. Flag-write events
// whose written byte has bit 0 (the halt bit) set are annotated
// halted=true.
func DefaultEnricher(e *Event) {
	if len(e.Tags) == 0 {
		return
	}

	switch e.Tags[0] {
	case Step:
		if e.Diff <= 0 {
			e.AddTag(Jump)
		} else {
			e.AddTag(Fallthrough)
		}
	case FlagWrite:
		if e.Diff&1 != 0 {
			e.Annotate("halted", "true")
		}
	}
}
