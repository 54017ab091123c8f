// Package style centralizes the lipgloss styles osciemu's run-mode dump
// and step-mode TUI share.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Label styles a field name ("ip", "r0", ...).
	Label = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	// Value styles a hex register/address value.
	Value = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

	// Halted styles the CPU-halted indicator.
	Halted = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Running styles the CPU-running indicator.
	Running = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	// Jump styles every trace line other than a BIOS map/unmap line.
	Jump = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// BiosEvent styles a BIOS map/unmap trace line.
	BiosEvent = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Italic(true)

	// Frame borders the step-mode register table.
	Frame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Field renders "name=value" with Label and Value styles applied.
func Field(name, value string) string {
	return Label.Render(name+"=") + Value.Render(value)
}

// RunState renders the halted/running indicator for run-mode's in-place
// state dump.
func RunState(halted bool) string {
	if halted {
		return Halted.Render("HALTED")
	}
	return Running.Render("RUNNING")
}
