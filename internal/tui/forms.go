package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/trainlog/internal/service"
)

const (
	fieldType = iota
	fieldName
	fieldDate
	fieldHours
	fieldAttendee
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Type:     ",
	"Training: ",
	"Date:     ",
	"Hours:    ",
	"Attendee: ",
}

type trainingForm struct {
	values  [fieldCount]string
	typeIdx int
	focus   int
}

func (f trainingForm) input() service.TrainingInput {
	return service.TrainingInput{
		Type:     f.values[fieldType],
		Name:     f.values[fieldName],
		Date:     f.values[fieldDate],
		Hours:    f.values[fieldHours],
		Attendee: f.values[fieldAttendee],
	}
}

type attendeeForm struct {
	name     string
	idNumber string
	focus    int
}

func (f *attendeeForm) edit(m tea.KeyMsg) {
	if f.focus == 0 {
		f.name = editText(f.name, m)
	} else {
		f.idNumber = editText(f.idNumber, m)
	}
}

func (f attendeeForm) fieldLine(idx int, label, value string) string {
	return fieldLine(f.focus == idx, label, value)
}

func fieldLine(focused bool, label, value string) string {
	if focused {
		return focusStyle.Render("▶ "+label) + textStyle.Render(value) + "▏"
	}
	return "  " + labelStyle.Render(label) + textStyle.Render(value)
}

// editText applies a key press to a single-line text buffer.
func editText(s string, m tea.KeyMsg) string {
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		r := []rune(s)
		if len(r) > 0 {
			return string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		return ""
	case tea.KeySpace:
		return s + " "
	case tea.KeyRunes:
		return s + string(m.Runes)
	}
	return s
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func (a *App) openForm() {
	a.clearForm()
	a.state = viewNewTraining
}

// clearForm resets every field to its default: first type, today's date.
func (a *App) clearForm() {
	a.form = trainingForm{}
	if len(a.types) > 0 {
		a.form.values[fieldType] = a.types[0]
	}
	a.form.values[fieldDate] = time.Now().In(a.tz).Format(a.dateFormat())
	a.form.focus = fieldName
	a.status = ""
}

func (a *App) cycleType(step int) {
	if len(a.types) == 0 {
		return
	}
	a.form.typeIdx = (a.form.typeIdx + step + len(a.types)) % len(a.types)
	a.form.values[fieldType] = a.types[a.form.typeIdx]
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.state = viewTrainings
		a.status = ""
		return a, nil
	case "tab", "down":
		a.form.focus = (a.form.focus + 1) % fieldCount
		return a, nil
	case "shift+tab", "up":
		a.form.focus = (a.form.focus + fieldCount - 1) % fieldCount
		return a, nil
	case "ctrl+s":
		return a, a.saveTrainingCmd(a.form.input())
	case "ctrl+r":
		a.clearForm()
		return a, nil
	case "enter":
		if a.form.focus < fieldAttendee {
			a.form.focus++
			return a, nil
		}
		return a, a.saveTrainingCmd(a.form.input())
	}
	if a.form.focus == fieldType {
		switch m.String() {
		case "left", "h":
			a.cycleType(-1)
		case "right", "l", " ":
			a.cycleType(1)
		}
		return a, nil
	}
	a.form.values[a.form.focus] = editText(a.form.values[a.form.focus], m)
	return a, nil
}

func (a *App) renderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New training") + "\n")
	for i := 0; i < fieldCount; i++ {
		value := a.form.values[i]
		if i == fieldType {
			value = "‹ " + value + " ›"
		}
		b.WriteString(fieldLine(a.form.focus == i, fieldLabels[i], value) + "\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("date as %s  [←/→] Type  [tab] Next  [enter] Save  [ctrl+r] Clear  [esc] Cancel", a.dateFormat())))
	return b.String() + a.renderStatus()
}
