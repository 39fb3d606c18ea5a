package ui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultFieldWidth = 40

// field is one labelled single-line input.
type field struct {
	label  string
	value  string
	hint   string
	secret bool
	width  int
}

// form is a stack of fields with exactly one focused.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) form {
	return form{fields: fields}
}

func (f *form) next() {
	f.focus = (f.focus + 1) % len(f.fields)
}

func (f *form) prev() {
	f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
}

func (f *form) value(label string) string {
	for _, fl := range f.fields {
		if fl.label == label {
			return fl.value
		}
	}
	return ""
}

func (f *form) set(label, value string) {
	for i := range f.fields {
		if f.fields[i].label == label {
			f.fields[i].value = value
		}
	}
}

func (f *form) clear() {
	for i := range f.fields {
		f.fields[i].value = ""
	}
	f.focus = 0
}

// edit applies a typing key to the focused field. It reports false for keys
// the form does not handle.
func (f *form) edit(msg tea.KeyMsg) bool {
	fl := &f.fields[f.focus]
	switch msg.Type {
	case tea.KeyBackspace:
		if fl.value != "" {
			_, size := utf8.DecodeLastRuneInString(fl.value)
			fl.value = fl.value[:len(fl.value)-size]
		}
		return true
	case tea.KeyRunes, tea.KeySpace:
		fl.value += string(msg.Runes)
		return true
	}
	return false
}

func (f form) view() string {
	rows := make([]string, 0, len(f.fields)*2)
	for i, fl := range f.fields {
		rows = append(rows, renderField(fl, i == f.focus), "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderField(fl field, active bool) string {
	label, box := labelStyle, fieldStyle
	if active {
		label, box = activeLabelStyle, activeFieldStyle
	}

	width := fl.width
	if width == 0 {
		width = defaultFieldWidth
	}

	value := fl.value
	if fl.secret {
		value = strings.Repeat("*", utf8.RuneCountInString(value))
	}

	parts := []string{label.Render(fl.label), box.Width(width).Render(value)}
	if fl.hint != "" {
		parts = append(parts, hintStyle.Render("  "+fl.hint))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}
