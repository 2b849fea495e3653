package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/drt/internal/ui/keys"
	"github.com/tgienger/drt/internal/ui/styles"
)

type fieldKind int

const (
	textField fieldKind = iota
	areaField
	choiceField
)

type formField struct {
	name  string
	label string
	kind  fieldKind

	input textinput.Model
	area  textarea.Model

	// choice fields cycle through values with ←/→
	values []string
	labels []string
	choice int

	// visible hides the field when it returns false
	visible func(f *form) bool
}

// form is a vertical stack of fields followed by a submit button.
// focus == len(fields) means the button is focused.
type form struct {
	title  string
	submit string
	hint   string
	fields []*formField
	focus  int
	keys   keys.KeyMap

	// err is shown under the title; busy replaces the button while a request runs
	err  string
	busy string
}

func newForm(title, submit string) *form {
	return &form{title: title, submit: submit, keys: keys.DefaultKeyMap()}
}

func (f *form) addText(name, label, placeholder string, limit int) *formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	fld := &formField{name: name, label: label, kind: textField, input: in}
	f.fields = append(f.fields, fld)
	return fld
}

func (f *form) addArea(name, label, placeholder string, limit, height int) *formField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = limit
	ta.SetWidth(50)
	ta.SetHeight(height)
	ta.ShowLineNumbers = false
	fld := &formField{name: name, label: label, kind: areaField, area: ta}
	f.fields = append(f.fields, fld)
	return fld
}

func (f *form) addChoice(name, label string, values, labels []string, initial string) *formField {
	fld := &formField{name: name, label: label, kind: choiceField, values: values, labels: labels}
	for i, v := range values {
		if v == initial {
			fld.choice = i
		}
	}
	f.fields = append(f.fields, fld)
	return fld
}

func (f *form) field(name string) *formField {
	for _, fld := range f.fields {
		if fld.name == name {
			return fld
		}
	}
	return nil
}

func (f *form) Value(name string) string {
	fld := f.field(name)
	if fld == nil {
		return ""
	}
	switch fld.kind {
	case areaField:
		return fld.area.Value()
	case choiceField:
		if len(fld.values) == 0 {
			return ""
		}
		return fld.values[fld.choice]
	}
	return fld.input.Value()
}

func (f *form) SetValue(name, value string) {
	fld := f.field(name)
	if fld == nil {
		return
	}
	switch fld.kind {
	case areaField:
		fld.area.SetValue(value)
	case choiceField:
		for i, v := range fld.values {
			if v == value {
				fld.choice = i
			}
		}
	default:
		fld.input.SetValue(value)
	}
}

func (f *form) isVisible(i int) bool {
	if i >= len(f.fields) {
		return true
	}
	fld := f.fields[i]
	return fld.visible == nil || fld.visible(f)
}

// Start focuses the first field
func (f *form) Start() tea.Cmd {
	f.focus = 0
	f.updateFocus()
	return textinput.Blink
}

func (f *form) move(dir int) {
	n := len(f.fields) + 1
	for i := 0; i < n; i++ {
		f.focus = (f.focus + dir + n) % n
		if f.isVisible(f.focus) {
			break
		}
	}
	f.updateFocus()
}

func (f *form) updateFocus() {
	for i, fld := range f.fields {
		switch fld.kind {
		case textField:
			fld.input.Blur()
			if i == f.focus {
				fld.input.Focus()
			}
		case areaField:
			fld.area.Blur()
			if i == f.focus {
				fld.area.Focus()
			}
		}
	}
}

func (f *form) SetWidth(width int) {
	for _, fld := range f.fields {
		if fld.kind == areaField {
			fld.area.SetWidth(width)
		}
	}
}

// Update handles a key press and reports whether the form was submitted.
// Esc is left to the owner.
func (f *form) Update(msg tea.KeyMsg) (submitted bool, cmd tea.Cmd) {
	if f.busy != "" {
		return false, nil
	}
	switch {
	case key.Matches(msg, f.keys.Save):
		return true, nil
	case key.Matches(msg, f.keys.Tab):
		f.move(1)
		return false, nil
	case key.Matches(msg, f.keys.ShiftTab):
		f.move(-1)
		return false, nil
	}

	if f.focus >= len(f.fields) {
		if key.Matches(msg, f.keys.Enter) {
			return true, nil
		}
		return false, nil
	}

	fld := f.fields[f.focus]
	switch fld.kind {
	case choiceField:
		switch {
		case key.Matches(msg, f.keys.Left):
			fld.choice = (fld.choice + len(fld.values) - 1) % len(fld.values)
		case key.Matches(msg, f.keys.Right), msg.String() == " ":
			fld.choice = (fld.choice + 1) % len(fld.values)
		case key.Matches(msg, f.keys.Enter):
			f.move(1)
		}
		return false, nil
	case textField:
		if key.Matches(msg, f.keys.Enter) {
			f.move(1)
			return false, nil
		}
		fld.input, cmd = fld.input.Update(msg)
		return false, cmd
	}
	// enter inserts a newline in text areas
	fld.area, cmd = fld.area.Update(msg)
	return false, cmd
}

func (f *form) View(s *styles.Styles, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-6, 20, 60)

	rows := []string{s.Title.Render(f.title)}
	if f.err != "" {
		rows = append(rows, s.Error.Render(f.err))
	}
	rows = append(rows, "")

	for i, fld := range f.fields {
		if !f.isVisible(i) {
			continue
		}
		box := s.Input
		if i == f.focus {
			box = s.InputFocused
		}
		rows = append(rows, fld.label+":")
		switch fld.kind {
		case choiceField:
			label := fld.values[fld.choice]
			if fld.choice < len(fld.labels) {
				label = fld.labels[fld.choice]
			}
			rows = append(rows, box.Width(inputWidth).Render("◀ "+label+" ▶"))
		case areaField:
			rows = append(rows, box.Render(fld.area.View()))
		default:
			rows = append(rows, box.Width(inputWidth).Render(fld.input.View()))
		}
	}

	rows = append(rows, "")
	if f.busy != "" {
		rows = append(rows, s.TitleMuted.Render(f.busy))
	} else {
		btn := s.Button
		if f.focus >= len(f.fields) {
			btn = s.ButtonFocused
		}
		rows = append(rows, btn.Render(" "+f.submit+" "))
	}
	hint := "Tab: next • ←→: choose • Ctrl+S: save • Esc: cancel"
	if f.hint != "" {
		hint = f.hint
	}
	rows = append(rows, "", s.TitleMuted.Render(hint))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if lipgloss.Height(content) > height && height > 0 {
		return styles.CenterView(lipgloss.NewStyle().Padding(0, 2).Render(content), width, height)
	}
	return renderCentered(width, height, content)
}
