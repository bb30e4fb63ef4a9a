// Package debugger is an interactive bubbletea TUI standing in for the
// teacher's raw-stdin BIOS REPL: step/run one instruction at a time,
// set breakpoints, inspect memory and the stack, and dump full CPU
// state with go-spew.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/nesgo/nesgo/bus"
)

type mode int

const (
	modeRunning mode = iota
	modeBreakpointEntry
	modePCEntry
)

type model struct {
	bus *bus.Bus

	breaks map[uint16]struct{}
	input  strings.Builder
	mode   mode

	lastErr error
	halted  bool
}

// New returns an initial model wired to b.
func New(b *bus.Bus) model {
	return model{bus: b, breaks: map[uint16]struct{}{}}
}

func (m model) Init() tea.Cmd { return nil }

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode != modeRunning {
		return m.updateEntry(keyMsg)
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.step()
	case "r":
		m.runToBreakpoint()
	case "e":
		m.bus.CPU.Reset()
	case "b":
		m.mode = modeBreakpointEntry
		m.input.Reset()
	case "p":
		m.mode = modePCEntry
		m.input.Reset()
	case "c":
		m.breaks = map[uint16]struct{}{}
	}
	return m, nil
}

func (m *model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeRunning
	case "enter":
		addr, err := strconv.ParseUint(m.input.String(), 16, 16)
		if err != nil {
			m.lastErr = err
		} else {
			switch m.mode {
			case modeBreakpointEntry:
				m.breaks[uint16(addr)] = struct{}{}
			case modePCEntry:
				m.bus.CPU.SetPC(uint16(addr))
			}
		}
		m.mode = modeRunning
	case "backspace":
		s := m.input.String()
		if len(s) > 0 {
			m.input.Reset()
			m.input.WriteString(s[:len(s)-1])
		}
	default:
		m.input.WriteString(msg.String())
	}
	return m, nil
}

// step executes exactly one instruction.
func (m *model) step() {
	if m.halted {
		return
	}
	_, halted, err := m.bus.CPU.Step()
	if err != nil {
		m.lastErr = err
		return
	}
	if halted {
		m.halted = true
	}
}

// runToBreakpoint steps until a breakpoint address, a halt, or an
// error, whichever comes first.
func (m *model) runToBreakpoint() {
	for i := 0; i < 1_000_000 && !m.halted; i++ {
		if _, hit := m.breaks[m.bus.CPU.PC]; hit && i > 0 {
			return
		}
		m.step()
		if m.lastErr != nil {
			return
		}
	}
}

func (m model) stackDump() string {
	var b strings.Builder
	fmt.Fprintln(&b, "stack:")
	for i := 0; i < 3; i++ {
		addr := 0x0100 + uint16(m.bus.CPU.SP) + uint16(i) + 1
		fmt.Fprintf(&b, "  0x%04X: 0x%02X\n", addr, m.bus.Read(addr))
	}
	return b.String()
}

func (m model) instructionBytes() string {
	pc := m.bus.CPU.PC
	var b strings.Builder
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "0x%04X: 0x%02X  ", pc+uint16(i), m.bus.Read(pc+uint16(i)))
	}
	return b.String()
}

func (m model) View() string {
	header := labelStyle.Render("nesgo debugger") + "  (s)tep (r)un (b)reak (c)lear (p)c (e) reset (q)uit"

	status := spew.Sdump(m.bus.CPU)

	breaks := make([]string, 0, len(m.breaks))
	for addr := range m.breaks {
		breaks = append(breaks, fmt.Sprintf("0x%04X", addr))
	}

	body := []string{
		header,
		"",
		status,
		m.instructionBytes(),
		m.stackDump(),
		"breakpoints: " + strings.Join(breaks, ", "),
	}

	if m.halted {
		body = append(body, errStyle.Render("halted (KIL)"))
	}
	if m.lastErr != nil {
		body = append(body, errStyle.Render(m.lastErr.Error()))
	}
	if m.mode != modeRunning {
		prompt := "breakpoint"
		if m.mode == modePCEntry {
			prompt = "set PC"
		}
		body = append(body, fmt.Sprintf("%s (hex): %s_", prompt, m.input.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, body...)
}

// Run starts the interactive debugger loop; it blocks until the user
// quits. The caller is expected to have already wired b's mapper and
// left the CPU paused (no concurrent bus.Run goroutine driving it).
func Run(b *bus.Bus) error {
	_, err := tea.NewProgram(New(b)).Run()
	return err
}
