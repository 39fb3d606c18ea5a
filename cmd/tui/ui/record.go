package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/attendly/cmd/tui/client"
	"github.com/Varun5711/attendly/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

const maxDescriptionLength = 500

type recordSuccessMsg struct {
	t models.AttendanceType
}

type recordErrorMsg struct {
	err error
}

// sessionExpiredMsg sends the user back to the login screen.
type sessionExpiredMsg struct{}

const (
	fieldTask  = "Task"
	fieldRange = "Time range"
)

// RecordModel collects the task list for a check-in or check-out.
type RecordModel struct {
	kind    models.AttendanceType
	form    form
	tasks   []models.Task
	loading bool
	done    bool
	err     error
	client  *client.Client
}

func newTaskForm() form {
	return newForm(
		field{label: fieldTask, width: 52},
		field{label: fieldRange, width: 14, hint: "optional, e.g. 09:00-10:30"},
	)
}

func NewRecordModel() *RecordModel {
	return &RecordModel{kind: models.CheckIn, form: newTaskForm()}
}

func (m *RecordModel) SetClient(c *client.Client) {
	m.client = c
}

func (m *RecordModel) Init() tea.Cmd {
	return nil
}

// Start clears the form for a new submission of the given type.
func (m *RecordModel) Start(t models.AttendanceType) {
	*m = RecordModel{kind: t, form: newTaskForm(), client: m.client}
}

func (m *RecordModel) defaultStatus() models.TaskStatus {
	if m.kind == models.CheckOut {
		return models.TaskDone
	}
	return models.TaskTodo
}

func recordCmd(c *client.Client, t models.AttendanceType, tasks []models.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.Record(ctx, t, tasks); err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return sessionExpiredMsg{}
			}
			return recordErrorMsg{err: err}
		}
		return recordSuccessMsg{t: t}
	}
}

func (m *RecordModel) addTask() error {
	desc := strings.TrimSpace(m.form.value(fieldTask))
	if desc == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if len([]rune(desc)) > maxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", maxDescriptionLength)
	}

	m.tasks = append(m.tasks, models.Task{
		Description: desc,
		Status:      m.defaultStatus(),
		TimeRange:   strings.TrimSpace(m.form.value(fieldRange)),
	})
	m.form.clear()
	return nil
}

func (m *RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordSuccessMsg:
		m.loading = false
		m.done = true
		m.err = nil
		return m, nil

	case recordErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "tab":
			m.form.next()
		case "shift+tab":
			m.form.prev()
		case "enter":
			if err := m.addTask(); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.done = false
		case "ctrl+t":
			if n := len(m.tasks); n > 0 {
				if m.tasks[n-1].Status == models.TaskDone {
					m.tasks[n-1].Status = models.TaskTodo
				} else {
					m.tasks[n-1].Status = models.TaskDone
				}
			}
		case "ctrl+x":
			if n := len(m.tasks); n > 0 {
				m.tasks = m.tasks[:n-1]
			}
		case "ctrl+d":
			if m.client == nil {
				m.err = fmt.Errorf("API client not configured")
				return m, nil
			}
			m.loading = true
			m.err = nil
			return m, recordCmd(m.client, m.kind, m.tasks)
		case "ctrl+l":
			m.form.clear()
			m.err = nil
		default:
			m.form.edit(msg)
		}
	}
	return m, nil
}

func (m *RecordModel) View() string {
	screen, style, empty := "check in", checkInStyle, "No tasks planned. Submitting now records the time only."
	if m.kind == models.CheckOut {
		screen, style, empty = "check out", checkOutStyle, "No tasks reported. Submitting now records the time only."
	}

	var b strings.Builder
	b.WriteString(heading(screen))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(hintStyle.Render(empty))
		b.WriteString("\n")
	}
	for i, task := range m.tasks {
		mark := style.Render("[ ]")
		if task.Status == models.TaskDone {
			mark = okStyle.Render("[x]")
		}
		b.WriteString(mark + textStyle.Render(fmt.Sprintf(" %d. %s", i+1, task.Description)))
		if task.TimeRange != "" {
			b.WriteString(hintStyle.Render("  " + task.TimeRange))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.form.view())

	switch {
	case m.loading:
		b.WriteString(hintStyle.Render("Saving..."))
	case m.err != nil:
		b.WriteString(failStyle.Render(m.err.Error()))
	case m.done:
		b.WriteString(okStyle.Render("Saved " + screen + " for today."))
	}
	b.WriteString("\n\n")
	b.WriteString(keyHelp("enter", "add task", "ctrl+t", "done/todo", "ctrl+x", "drop last", "ctrl+d", "submit", "esc", "back"))

	return panelStyle.Render(b.String())
}
