package ui

import (
	"context"
	"time"

	"github.com/Varun5711/attendly/cmd/tui/client"
	"github.com/Varun5711/attendly/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

type View int

const (
	AuthView View = iota
	MenuView
	RecordView
	HistoryView
)

type logoutMsg struct{}

type Model struct {
	currentView View
	auth        *AuthModel
	menu        *MenuModel
	record      *RecordModel
	history     *HistoryModel
	client      *client.Client
	width       int
	height      int

	isAuthenticated bool
	userName        string
	userEmail       string
}

func NewModel(c *client.Client) Model {
	recordModel := NewRecordModel()
	recordModel.SetClient(c)

	historyModel := NewHistoryModel()
	historyModel.SetClient(c)

	return Model{
		currentView: AuthView,
		auth:        NewAuthModel(c),
		menu:        NewMenuModel(),
		record:      recordModel,
		history:     historyModel,
		client:      c,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func logoutCmd(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// The local state is dropped even if the server is unreachable.
		c.Logout(ctx)
		return logoutMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authSuccessMsg:
		m.auth.Update(msg)
		m.isAuthenticated = true
		m.userName = msg.name
		m.userEmail = msg.email
		m.menu.Reset()
		m.currentView = MenuView
		return m, statusCmd(m.client)

	case logoutMsg, sessionExpiredMsg:
		m.isAuthenticated = false
		m.userName = ""
		m.userEmail = ""
		m.auth.Reset()
		m.menu.Reset()
		m.history.Reset()
		m.currentView = AuthView
		return m, nil

	// The menu status follows every change to the user's records.
	case statusMsg, statusErrorMsg:
		m.menu.Update(msg)
		return m, nil

	case recordSuccessMsg:
		m.record.Update(msg)
		return m, statusCmd(m.client)

	case deleteSuccessMsg:
		_, cmd := m.history.Update(msg)
		return m, tea.Batch(cmd, statusCmd(m.client))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			switch m.currentView {
			case AuthView:
				return m, tea.Quit
			case RecordView, HistoryView:
				if !m.history.Capturing() {
					m.currentView = MenuView
					return m, nil
				}
			}

		case "q":
			if m.currentView == MenuView {
				return m, tea.Quit
			}
		}
	}

	switch m.currentView {
	case AuthView:
		_, cmd := m.auth.Update(msg)
		return m, cmd

	case MenuView:
		updatedMenu, cmd := m.menu.Update(msg)
		m.menu = updatedMenu.(*MenuModel)
		if m.menu.selected != -1 {
			selected := m.menu.selected
			m.menu.selected = -1
			switch selected {
			case menuCheckIn:
				m.record.Start(models.CheckIn)
				m.currentView = RecordView
			case menuCheckOut:
				m.record.Start(models.CheckOut)
				m.currentView = RecordView
			case menuHistory:
				m.history.loaded = false
				m.currentView = HistoryView
				return m, m.history.Load()
			case menuLogout:
				return m, logoutCmd(m.client)
			}
		}
		return m, cmd

	case RecordView:
		updatedRecord, cmd := m.record.Update(msg)
		m.record = updatedRecord.(*RecordModel)
		return m, cmd

	case HistoryView:
		updatedHistory, cmd := m.history.Update(msg)
		m.history = updatedHistory.(*HistoryModel)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var main string
	switch m.currentView {
	case AuthView:
		return m.auth.View()
	case MenuView:
		main = m.menu.View()
	case RecordView:
		main = m.record.View()
	case HistoryView:
		main = m.history.View()
	}

	if !m.isAuthenticated {
		return main
	}
	bar := barStyle.Render(keyStyle.Render(m.userName) + hintStyle.Render("  "+m.userEmail))
	return bar + "\n" + main
}
