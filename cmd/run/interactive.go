package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/echo-surface/binding"
	"github.com/wippyai/echo-surface/surface"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

// interactiveModel drives the TUI. The surface persists across calls, so
// slot sharing and the stable record are observable between operations.
type interactiveModel struct {
	err      error
	surface  *surface.Surface
	ops      []binding.OpSpec
	inputs   []textinput.Model
	result   string
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel() *interactiveModel {
	return &interactiveModel{
		surface: surface.New(),
		ops:     binding.Ops(),
		state:   stateSelectOp,
	}
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callOp
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callOp

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inputs = make([]textinput.Model, len(op.Params))
	for i, p := range op.Params {
		ti := textinput.New()
		ti.Placeholder = placeholder(p)
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callOp() tea.Msg {
	op := m.ops[m.selected]
	args := make([]any, len(m.inputs))
	for i, input := range m.inputs {
		v, err := convertArg(input.Value(), op.Params[i])
		if err != nil {
			return callResultMsg{err: err}
		}
		args[i] = v
	}

	result, err := op.Invoke(m.surface, args)
	if err != nil {
		return callResultMsg{err: err}
	}
	if result == nil {
		return callResultMsg{result: "ok"}
	}
	return callResultMsg{result: fmt.Sprintf("%v", result)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Echo Surface"))
	b.WriteString(" ")
	b.WriteString(binding.DefaultNamespace)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation to call:\n\n")
		for i, op := range m.ops {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatOp(op)))
			} else {
				b.WriteString(cursor + m.formatOp(op))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(op.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(witTypeStr(op.Params[i])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(op.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatOp(op binding.OpSpec) string {
	var params []string
	for _, p := range op.Params {
		params = append(params, typeStyle.Render(witTypeStr(p)))
	}
	result := ""
	if len(op.Results) > 0 {
		result = " -> " + typeStyle.Render(witTypeStr(op.Results[0]))
	}
	return funcStyle.Render(op.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

func placeholder(t wit.Type) string {
	if _, ok := t.(*wit.TypeDef); ok {
		return "a;b;c;d  e.g. 3.14;42;hello;true"
	}
	return witTypeStr(t)
}

// convertArg parses a textual argument into the exact Go type the
// operation's dispatcher expects. Record fields are semicolon-separated.
func convertArg(value string, t wit.Type) (any, error) {
	switch t.(type) {
	case wit.String:
		return value, nil
	case wit.Bool:
		return value == "true" || value == "1", nil
	case wit.S8:
		v, err := strconv.ParseInt(value, 10, 8)
		return int8(v), err
	case wit.U8:
		v, err := strconv.ParseUint(value, 10, 8)
		return uint8(v), err
	case wit.S16:
		v, err := strconv.ParseInt(value, 10, 16)
		return int16(v), err
	case wit.U16:
		v, err := strconv.ParseUint(value, 10, 16)
		return uint16(v), err
	case wit.S32:
		v, err := strconv.ParseInt(value, 10, 32)
		return int32(v), err
	case wit.U32:
		v, err := strconv.ParseUint(value, 10, 32)
		return uint32(v), err
	case wit.S64:
		v, err := strconv.ParseInt(value, 10, 64)
		return v, err
	case wit.U64:
		v, err := strconv.ParseUint(value, 10, 64)
		return v, err
	case wit.F32:
		v, err := strconv.ParseFloat(value, 32)
		return float32(v), err
	case wit.F64:
		return strconv.ParseFloat(value, 64)
	case *wit.TypeDef:
		return parseRecord(value)
	default:
		return value, nil
	}
}

// parseRecord reads "a;b;c;d" into a record. The string field may contain
// anything but a semicolon.
func parseRecord(value string) (surface.Record, error) {
	parts := strings.SplitN(value, ";", 4)
	if len(parts) != 4 {
		return surface.Record{}, fmt.Errorf("record wants 4 fields a;b;c;d, got %d", len(parts))
	}
	a, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return surface.Record{}, fmt.Errorf("record field a: %w", err)
	}
	b, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return surface.Record{}, fmt.Errorf("record field b: %w", err)
	}
	return surface.Record{
		A: a,
		B: int32(b),
		C: []byte(parts[2]),
		D: parts[3] == "true" || parts[3] == "1",
	}, nil
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
