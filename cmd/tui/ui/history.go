package ui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/Varun5711/attendly/cmd/tui/client"
	"github.com/Varun5711/attendly/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

const historyPageSize = 5

type historySuccessMsg struct {
	records    []*models.AttendanceRecord
	pagination models.Pagination
}

type historyErrorMsg struct {
	err error
}

type deleteSuccessMsg struct{}

type reportSuccessMsg struct {
	text string
}

type copySuccessMsg struct{}

type copyErrorMsg struct {
	err error
}

type HistoryModel struct {
	records    []*models.AttendanceRecord
	pagination models.Pagination
	page       int
	search     string
	searching  bool
	draft      string
	cursor     int
	confirm    bool
	report     string
	copied     bool
	loading    bool
	err        error
	client     *client.Client
	loaded     bool
}

func NewHistoryModel() *HistoryModel {
	return &HistoryModel{page: 1}
}

func (m *HistoryModel) SetClient(c *client.Client) {
	m.client = c
}

func (m *HistoryModel) Init() tea.Cmd {
	return nil
}

// Reset drops everything fetched for the previous user.
func (m *HistoryModel) Reset() {
	*m = HistoryModel{page: 1, client: m.client}
}

// Capturing reports whether keystrokes go to the search box.
func (m *HistoryModel) Capturing() bool {
	return m.searching
}

// Load fetches the current page.
func (m *HistoryModel) Load() tea.Cmd {
	if m.client == nil {
		m.err = fmt.Errorf("API client not configured")
		return nil
	}
	m.loading = true
	m.err = nil
	return historyCmd(m.client, models.AttendanceFilters{
		Search: m.search,
		Page:   m.page,
		Limit:  historyPageSize,
	})
}

func asSessionMsg(err error, fallback tea.Msg) tea.Msg {
	if errors.Is(err, client.ErrUnauthorized) {
		return sessionExpiredMsg{}
	}
	return fallback
}

func historyCmd(c *client.Client, filters models.AttendanceFilters) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := c.List(ctx, filters)
		if err != nil {
			return asSessionMsg(err, historyErrorMsg{err: err})
		}
		return historySuccessMsg{records: res.Records, pagination: res.Pagination}
	}
}

func deleteCmd(c *client.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.Delete(ctx, id); err != nil {
			return asSessionMsg(err, historyErrorMsg{err: err})
		}
		return deleteSuccessMsg{}
	}
}

func reportCmd(c *client.Client, id string, t models.AttendanceType) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		text, err := c.Report(ctx, id, t)
		if err != nil {
			return asSessionMsg(err, historyErrorMsg{err: err})
		}
		return reportSuccessMsg{text: text}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("pbcopy")
		case "linux":
			cmd = exec.Command("xclip", "-selection", "clipboard")
		case "windows":
			cmd = exec.Command("clip")
		default:
			return copyErrorMsg{err: fmt.Errorf("unsupported platform")}
		}

		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			return copyErrorMsg{err: err}
		}

		return copySuccessMsg{}
	}
}

func (m *HistoryModel) selected() *models.AttendanceRecord {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return nil
	}
	return m.records[m.cursor]
}

func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historySuccessMsg:
		m.loading = false
		m.loaded = true
		m.records = msg.records
		m.pagination = msg.pagination
		if m.cursor >= len(m.records) {
			m.cursor = 0
		}
		return m, nil

	case historyErrorMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.err
		return m, nil

	case deleteSuccessMsg:
		m.confirm = false
		// Step back when the last row of a page was removed.
		if len(m.records) == 1 && m.page > 1 {
			m.page--
		}
		return m, m.Load()

	case reportSuccessMsg:
		m.loading = false
		m.report = msg.text
		m.copied = false
		return m, nil

	case copySuccessMsg:
		m.copied = true
		return m, nil

	case copyErrorMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.loading {
			return m, nil
		}

		key := msg.String()
		if m.confirm && key != "y" {
			m.confirm = false
			return m, nil
		}

		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.report = ""
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
			m.report = ""
		case "n", "right":
			if m.page < m.pagination.Pages {
				m.page++
				m.cursor = 0
				m.report = ""
				return m, m.Load()
			}
		case "p", "left":
			if m.page > 1 {
				m.page--
				m.cursor = 0
				m.report = ""
				return m, m.Load()
			}
		case "/":
			m.searching = true
			m.draft = m.search
		case "r":
			return m, m.Load()
		case "x":
			if m.selected() != nil {
				m.confirm = true
			}
		case "y":
			if rec := m.selected(); m.confirm && rec != nil {
				m.loading = true
				return m, deleteCmd(m.client, rec.ID)
			}
		case "i", "o":
			if rec := m.selected(); rec != nil {
				t := models.CheckIn
				if key == "o" {
					t = models.CheckOut
				}
				m.loading = true
				m.err = nil
				return m, reportCmd(m.client, rec.ID, t)
			}
		case "C":
			if m.report != "" {
				return m, copyToClipboard(m.report)
			}
		}
	}

	return m, nil
}

func (m *HistoryModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search = strings.TrimSpace(m.draft)
		m.page = 1
		m.cursor = 0
		m.report = ""
		return m, m.Load()
	case tea.KeyEsc:
		m.searching = false
	case tea.KeyBackspace:
		if len(m.draft) > 0 {
			m.draft = m.draft[:len(m.draft)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.draft += string(msg.Runes)
	}
	return m, nil
}

func taskLine(label string, clock string, tasks []models.Task) string {
	return fmt.Sprintf("%s %s  %d task(s)", label, clockOrDash(clock), len(tasks))
}

func (m *HistoryModel) View() string {
	var b strings.Builder
	b.WriteString(heading("history"))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(renderField(field{label: "Search", value: m.draft}, true))
		b.WriteString("\n\n")
	} else if m.search != "" {
		b.WriteString(hintStyle.Render("Tasks matching \"" + m.search + "\""))
		b.WriteString("\n\n")
	}

	switch {
	case m.loading && !m.loaded:
		b.WriteString(hintStyle.Render("Loading records..."))
		b.WriteString("\n")
	case len(m.records) == 0 && m.err == nil:
		b.WriteString(hintStyle.Render("No attendance records yet. Check in from the menu first."))
		b.WriteString("\n")
	default:
		for i, rec := range m.records {
			card := cardStyle
			if i == m.cursor {
				card = activeCardStyle
			}
			body := textStyle.Bold(true).Render(rec.Date) + "\n" +
				checkInStyle.Render(taskLine("in ", rec.CheckInTime, rec.CheckInTasks)) + "\n" +
				checkOutStyle.Render(taskLine("out", rec.CheckOutTime, rec.CheckOutTasks))
			b.WriteString(card.Render(body))
			b.WriteString("\n")
		}
	}

	if m.pagination.Pages > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf("page %d/%d, %d day(s) recorded", m.pagination.Page, m.pagination.Pages, m.pagination.Total)))
		b.WriteString("\n")
	}

	if m.report != "" {
		b.WriteString("\n")
		b.WriteString(reportStyle.Render(m.report))
		b.WriteString("\n")
		if m.copied {
			b.WriteString(okStyle.Render("Copied to clipboard."))
		} else {
			b.WriteString(keyHelp("C", "copy report"))
		}
		b.WriteString("\n")
	}

	if m.confirm {
		b.WriteString(failStyle.Render("Delete this day's record? y to confirm"))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(failStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(keyHelp("n/p", "page", "/", "search", "i/o", "report", "x", "delete", "r", "refresh", "esc", "back"))

	return panelStyle.Render(b.String())
}
