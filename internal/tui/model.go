// Package tui is the interactive bubbletea step-mode program: a live
// register table plus a scrolling instruction trace, driven one Step() at
// a time.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oscimu/osciemu/internal/oscilog"
	"github.com/oscimu/osciemu/internal/osci"
	"github.com/oscimu/osciemu/internal/script"
	"github.com/oscimu/osciemu/internal/trace"
	"github.com/oscimu/osciemu/internal/ui/style"
)

const maxTraceLines = 200

// Model is the bubbletea program state for interactive step mode.
type Model struct {
	em  *osci.Emulator
	log *oscilog.Logger

	regs  table.Model
	trace *traceCollector

	promptingBreak bool
	breakInput     textinput.Model
	breakpoint     *script.Breakpoint

	halted bool
	err    error
}

// New constructs a Model wrapping em. If log is non-nil, it is wired as
// em's logger and its trace sink feeds the scrolling trace pane — every
// Step/FlagChange/Halt/BiosMap call em makes through log shows up here.
func New(em *osci.Emulator, log *oscilog.Logger) Model {
	cols := []table.Column{
		{Title: "reg", Width: 6},
		{Title: "value", Width: 12},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(false), table.WithHeight(6))

	ti := textinput.New()
	ti.Placeholder = "r0 > 10"
	ti.CharLimit = 200

	tc := &traceCollector{}
	if log != nil {
		log.SetOnTrace(tc.Add)
		em.SetLogger(log)
	}

	m := Model{em: em, log: log, regs: t, breakInput: ti, trace: tc}
	m.refreshTable()
	return m
}

func (m *Model) refreshTable() {
	snap, err := m.em.RegisterSnapshot()
	if err != nil {
		m.err = err
		return
	}
	rows := []table.Row{
		{"ip", fmt.Sprintf("0x%08x", snap.IP)},
	}
	for i, r := range snap.Registers {
		rows = append(rows, table.Row{fmt.Sprintf("r%d", i), fmt.Sprintf("0x%08x", r)})
	}
	m.regs.SetRows(rows)
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.promptingBreak {
		switch keyMsg.String() {
		case "enter":
			expr := m.breakInput.Value()
			bp, err := script.Compile(expr)
			if err != nil {
				m.trace.Add(breakpointEvent(m.em.IP(), "error: "+err.Error()))
			} else {
				m.breakpoint = bp
				m.trace.Add(breakpointEvent(m.em.IP(), "set: "+expr))
			}
			m.promptingBreak = false
			m.breakInput.Reset()
			return m, nil
		case "esc":
			m.promptingBreak = false
			m.breakInput.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.breakInput, cmd = m.breakInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		return m.step()
	case "b":
		m.promptingBreak = true
		m.breakInput.Focus()
		return m, nil
	}
	return m, nil
}

func (m Model) step() (tea.Model, tea.Cmd) {
	if m.halted {
		return m, nil
	}
	ipBefore := m.em.IP()
	if err := m.em.Step(); err != nil {
		m.err = err
		m.trace.Add(breakpointEvent(ipBefore, fmt.Sprintf("fault: %v", err)))
		return m, nil
	}
	halted, err := m.em.IsHalted()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.halted = halted
	m.refreshTable()

	if m.halted && m.log != nil {
		m.log.Halt(m.em.IP())
	}

	if m.breakpoint != nil {
		snap, err := m.em.RegisterSnapshot()
		if err == nil {
			if hit, _ := m.breakpoint.Eval(snap, m.halted); hit {
				m.trace.Add(breakpointEvent(m.em.IP(), "hit: "+m.breakpoint.String()))
			}
		}
	}
	return m, nil
}

// breakpointEvent wraps a step-mode notice (breakpoint set/hit/error,
// execution fault) as a trace.Event so it renders in the same pane as CPU
// step events.
func breakpointEvent(ip uint32, detail string) *trace.Event {
	e := trace.NewEvent(ip, string(trace.Breakpoint), 0)
	e.Annotate("detail", detail)
	return e
}

// View satisfies tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(style.Frame.Render(m.regs.View()))
	b.WriteString("\n")
	b.WriteString(style.RunState(m.halted))
	b.WriteString("\n")

	if m.promptingBreak {
		b.WriteString("break> " + m.breakInput.View() + "\n")
	}

	events := m.trace.Snapshot()
	start := 0
	if len(events) > 10 {
		start = len(events) - 10
	}
	for _, e := range events[start:] {
		b.WriteString(renderEvent(e) + "\n")
	}

	if m.err != nil {
		b.WriteString(fmt.Sprintf("error: %v\n", m.err))
	}
	b.WriteString("\n[s] step  [b] breakpoint  [q] quit\n")
	return b.String()
}

func renderEvent(e *trace.Event) string {
	line := fmt.Sprintf("0x%08x %s", e.IP, e.PrimaryTag())
	if detail := e.Annotations.Get("detail"); detail != "" {
		line += " " + detail
	} else {
		line += fmt.Sprintf(" diff=%d", e.Diff)
	}

	switch e.Tags.Primary() {
	case trace.BiosMap, trace.BiosUnmap:
		return style.BiosEvent.Render(line)
	default:
		return style.Jump.Render(line)
	}
}
