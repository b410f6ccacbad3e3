package survey

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// field is one labeled text input in a step form.
type field struct {
	label string
	input textinput.Model
}

func newField(label, placeholder string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	return field{label: label, input: ti}
}

// form groups a step's text inputs and tracks which one has focus.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) *form {
	f := &form{fields: fields}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// Value returns the trimmed value of field i.
func (f *form) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].input.Value())
}

// SetValue replaces the value of field i.
func (f *form) SetValue(i int, v string) {
	if i >= 0 && i < len(f.fields) {
		f.fields[i].input.SetValue(v)
	}
}

// Reset clears every field and returns focus to the first one.
func (f *form) Reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
		f.fields[i].input.Blur()
	}
	f.focus = 0
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
}

// FocusNext moves focus down the form, wrapping at the end.
func (f *form) FocusNext() {
	f.moveFocus(1)
}

// FocusPrev moves focus up the form, wrapping at the start.
func (f *form) FocusPrev() {
	f.moveFocus(-1)
}

func (f *form) moveFocus(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// Update forwards a message to the focused input.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// View renders the labeled inputs stacked vertically.
func (f *form) View() string {
	rows := make([]string, 0, len(f.fields))
	for i := range f.fields {
		label := styleFieldLabel.Render(f.fields[i].label)
		rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, label, f.fields[i].input.View()))
	}
	return strings.Join(rows, "\n")
}
