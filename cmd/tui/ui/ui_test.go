package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/Varun5711/attendly/internal/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestRecordModel_AddsTasksWithDefaultStatus(t *testing.T) {
	tests := []struct {
		kind   models.AttendanceType
		status models.TaskStatus
	}{
		{models.CheckIn, models.TaskTodo},
		{models.CheckOut, models.TaskDone},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			m := NewRecordModel()
			m.Start(tt.kind)

			typeText(m, "Review PR")
			m.Update(tea.KeyMsg{Type: tea.KeyTab})
			typeText(m, "09:00-10:00")
			m.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.Len(t, m.tasks, 1)
			assert.Equal(t, "Review PR", m.tasks[0].Description)
			assert.Equal(t, "09:00-10:00", m.tasks[0].TimeRange)
			assert.Equal(t, tt.status, m.tasks[0].Status)
			assert.Empty(t, m.form.value(fieldTask))
			assert.Equal(t, 0, m.form.focus)
		})
	}
}

func TestRecordModel_RejectsEmptyTask(t *testing.T) {
	m := NewRecordModel()
	typeText(m, "   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, m.tasks)
	assert.EqualError(t, m.err, "description cannot be empty")
}

func TestRecordModel_ToggleAndRemove(t *testing.T) {
	m := NewRecordModel()
	typeText(m, "Write docs")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, models.TaskDone, m.tasks[0].Status)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Empty(t, m.tasks)
}

func TestRecordModel_SubmitWithoutClient(t *testing.T) {
	m := NewRecordModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})

	assert.Nil(t, cmd)
	assert.False(t, m.loading)
	assert.Error(t, m.err)
}

func TestHistoryModel_Pages(t *testing.T) {
	m := NewHistoryModel()
	m.Update(historySuccessMsg{
		records:    []*models.AttendanceRecord{{ID: "a"}, {ID: "b"}},
		pagination: models.Pagination{Page: 1, Limit: historyPageSize, Total: 7, Pages: 2},
	})

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Equal(t, 2, m.page)
	assert.Equal(t, 0, m.cursor)

	// Already on the last page.
	m.loading = false
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Equal(t, 2, m.page)
}

func TestHistoryModel_SearchCapturesKeys(t *testing.T) {
	m := NewHistoryModel()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.Capturing())

	typeText(m, "deploy")
	assert.Equal(t, "deploy", m.draft)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Capturing())
	assert.Equal(t, "deploy", m.search)
	assert.Equal(t, 1, m.page)
}

func TestHistoryModel_DeleteNeedsConfirmation(t *testing.T) {
	m := NewHistoryModel()
	m.Update(historySuccessMsg{records: []*models.AttendanceRecord{{ID: "a"}}})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.True(t, m.confirm)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.False(t, m.confirm)
	assert.False(t, m.loading)
}

func TestModel_SessionExpiredReturnsToLogin(t *testing.T) {
	m := NewModel(nil)

	next, _ := m.Update(authSuccessMsg{email: "ana@example.com", name: "Ana"})
	m = next.(Model)
	require.Equal(t, MenuView, m.currentView)
	assert.True(t, m.isAuthenticated)

	next, _ = m.Update(sessionExpiredMsg{})
	m = next.(Model)
	assert.Equal(t, AuthView, m.currentView)
	assert.False(t, m.isAuthenticated)
	assert.Empty(t, m.userName)
}

func TestForm_EditsFocusedField(t *testing.T) {
	f := newForm(field{label: "A"}, field{label: "B", secret: true})

	f.edit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("héllo")})
	f.edit(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "héll", f.value("A"))

	f.prev()
	assert.Equal(t, 1, f.focus)
	f.edit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pw")})
	assert.Equal(t, "pw", f.value("B"))
	assert.NotContains(t, f.view(), "pw")

	assert.False(t, f.edit(tea.KeyMsg{Type: tea.KeyCtrlT}))

	f.clear()
	assert.Empty(t, f.value("A"))
	assert.Equal(t, 0, f.focus)
}

func TestAuthModel_ToggleKeepsEmail(t *testing.T) {
	m := NewAuthModel(nil)
	typeText(m, "ana@example.com")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, m.signup)
	assert.Equal(t, "ana@example.com", m.form.value(fieldEmail))
	assert.Equal(t, 0, m.form.focus, "name comes first")
	assert.Contains(t, m.View(), "max 72 bytes")
	assert.NotContains(t, m.View(), "min 8")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, m.signup)
	assert.Equal(t, "ana@example.com", m.form.value(fieldEmail))
}

func TestAuthModel_SignupValidation(t *testing.T) {
	m := NewAuthModel(nil)
	m.setMode(true)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.EqualError(t, m.err, "name is required")

	m.form.set(fieldName, "Ana")
	m.form.set(fieldEmail, "ana@example.com")
	m.form.set(fieldPassword, strings.Repeat("x", 73))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.EqualError(t, m.err, "password must be at most 72 bytes")

	m.form.set(fieldPassword, "correct horse")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.EqualError(t, m.err, "API client not configured")
	assert.False(t, m.loading)
}

func TestMenuModel_StatusLine(t *testing.T) {
	m := NewMenuModel()
	m.today = func() string { return "2025-03-10" }
	assert.Equal(t, "Loading today's attendance...", m.statusText())

	m.Update(statusMsg{})
	assert.Equal(t, "Nothing recorded yet. Check in to start your first day.", m.statusText())
	assert.Equal(t, menuCheckIn, m.cursor)

	m.Update(statusMsg{latest: &models.AttendanceRecord{Date: "2025-03-07", CheckInTime: "09:00", CheckOutTime: "17:30"}})
	assert.Equal(t, "Not checked in today. Last record 2025-03-07.", m.statusText())
	assert.Equal(t, menuCheckIn, m.cursor)

	m.Update(statusMsg{latest: &models.AttendanceRecord{Date: "2025-03-10", CheckInTime: "09:02"}})
	assert.Equal(t, "Today 2025-03-10  in 09:02  out --:--", m.statusText())
	assert.Equal(t, menuCheckOut, m.cursor)

	m.Update(statusMsg{latest: &models.AttendanceRecord{Date: "2025-03-10", CheckInTime: "09:02", CheckOutTime: "18:10"}})
	assert.Equal(t, "Today 2025-03-10  in 09:02  out 18:10", m.statusText())
	assert.Equal(t, menuHistory, m.cursor)

	m.Update(statusErrorMsg{err: errors.New("connection refused")})
	assert.Equal(t, "Status unavailable: connection refused", m.statusText())
}

func TestModel_StatusReachesMenuFromAnyView(t *testing.T) {
	m := NewModel(nil)
	m.menu.today = func() string { return "2025-03-10" }

	next, _ := m.Update(authSuccessMsg{email: "ana@example.com", name: "Ana"})
	m = next.(Model)
	m.currentView = RecordView

	next, _ = m.Update(statusMsg{latest: &models.AttendanceRecord{Date: "2025-03-10", CheckInTime: "08:45"}})
	m = next.(Model)
	assert.Equal(t, RecordView, m.currentView)
	assert.Contains(t, m.menu.statusText(), "in 08:45")

	next, _ = m.Update(logoutMsg{})
	m = next.(Model)
	assert.False(t, m.menu.loaded)
	assert.Equal(t, "2025-03-10", m.menu.today())
}
