package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/attendly/cmd/tui/client"
	"github.com/Varun5711/attendly/internal/models"
	"github.com/Varun5711/attendly/internal/validation"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	menuCheckIn = iota
	menuCheckOut
	menuHistory
	menuLogout
)

var menuItems = []struct {
	label string
	about string
}{
	menuCheckIn:  {"Check in", "plan today's tasks"},
	menuCheckOut: {"Check out", "report what got done"},
	menuHistory:  {"History", "browse, search and export past days"},
	menuLogout:   {"Log out", "end this session"},
}

// statusMsg carries the most recent attendance record, nil if there is none.
type statusMsg struct {
	latest *models.AttendanceRecord
}

type statusErrorMsg struct {
	err error
}

// MenuModel is the home screen. It shows where today's attendance stands
// and moves the cursor to the next sensible action.
type MenuModel struct {
	cursor   int
	selected int
	latest   *models.AttendanceRecord
	loaded   bool
	err      error
	today    func() string
}

func NewMenuModel() *MenuModel {
	return &MenuModel{
		selected: -1,
		today:    func() string { return time.Now().Format(validation.DateLayout) },
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

// Reset forgets the previous user's status.
func (m *MenuModel) Reset() {
	*m = MenuModel{selected: -1, today: m.today}
}

func statusCmd(c *client.Client) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp, err := c.List(ctx, models.AttendanceFilters{Page: 1, Limit: 1})
		if err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return sessionExpiredMsg{}
			}
			return statusErrorMsg{err: err}
		}
		if len(resp.Records) == 0 {
			return statusMsg{}
		}
		return statusMsg{latest: resp.Records[0]}
	}
}

// todays returns the latest record if it belongs to today.
func (m *MenuModel) todays() *models.AttendanceRecord {
	if m.latest != nil && m.latest.Date == m.today() {
		return m.latest
	}
	return nil
}

// suggest points the cursor at check-out once today's check-in exists.
func (m *MenuModel) suggest() {
	rec := m.todays()
	switch {
	case rec == nil:
		m.cursor = menuCheckIn
	case rec.CheckOutTime == "":
		m.cursor = menuCheckOut
	default:
		m.cursor = menuHistory
	}
}

func (m *MenuModel) statusText() string {
	switch {
	case m.err != nil:
		return "Status unavailable: " + m.err.Error()
	case !m.loaded:
		return "Loading today's attendance..."
	case m.latest == nil:
		return "Nothing recorded yet. Check in to start your first day."
	}

	rec := m.todays()
	if rec == nil {
		return fmt.Sprintf("Not checked in today. Last record %s.", m.latest.Date)
	}
	return fmt.Sprintf("Today %s  in %s  out %s", rec.Date, clockOrDash(rec.CheckInTime), clockOrDash(rec.CheckOutTime))
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.latest = msg.latest
		m.loaded = true
		m.err = nil
		m.suggest()
	case statusErrorMsg:
		m.loaded = true
		m.err = msg.err
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(menuItems)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.cursor
		}
	}
	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder
	b.WriteString(heading("today"))
	b.WriteString("\n\n")

	status := hintStyle
	switch rec := m.todays(); {
	case m.err != nil:
		status = failStyle
	case rec != nil && rec.CheckOutTime != "":
		status = checkOutStyle
	case rec != nil:
		status = checkInStyle
	}
	b.WriteString(status.Render(m.statusText()))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.cursor {
			b.WriteString(titleStyle.Render("› " + item.label))
			b.WriteString(hintStyle.Render("  " + item.about))
		} else {
			b.WriteString(textStyle.Render("  " + item.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(keyHelp("↑/↓", "move", "enter", "open", "q", "quit"))

	return panelStyle.Render(b.String())
}
