package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/attendly/cmd/tui/client"
	"github.com/Varun5711/attendly/internal/auth"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldName     = "Name"
	fieldEmail    = "Email"
	fieldPassword = "Password"
)

// authSuccessMsg is sent once the session cookie is in the client's jar.
type authSuccessMsg struct {
	email string
	name  string
}

type authErrorMsg struct {
	err error
}

// AuthModel is the sign-in screen. ctrl+s flips it into account creation.
type AuthModel struct {
	signup  bool
	form    form
	loading bool
	err     error
	client  *client.Client
}

func NewAuthModel(c *client.Client) *AuthModel {
	m := &AuthModel{client: c}
	m.setMode(false)
	return m
}

func (m *AuthModel) Init() tea.Cmd {
	return nil
}

// setMode rebuilds the form, keeping the email already typed.
func (m *AuthModel) setMode(signup bool) {
	email := m.form.value(fieldEmail)

	password := field{label: fieldPassword, secret: true}
	if signup {
		password.hint = fmt.Sprintf("max %d bytes", auth.MaxPasswordBytes)
		m.form = newForm(field{label: fieldName}, field{label: fieldEmail}, password)
	} else {
		m.form = newForm(field{label: fieldEmail}, password)
	}
	m.form.set(fieldEmail, email)

	m.signup = signup
	m.err = nil
}

// Reset returns to an empty sign-in form.
func (m *AuthModel) Reset() {
	m.form = form{}
	m.loading = false
	m.setMode(false)
}

func authCmd(c *client.Client, signup bool, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if signup {
			err = c.Signup(ctx, email, password, name)
		} else {
			err = c.Login(ctx, email, password)
		}
		if err != nil {
			return authErrorMsg{err: err}
		}

		profile, err := c.Me(ctx)
		if err != nil {
			return authErrorMsg{err: err}
		}
		return authSuccessMsg{email: profile.Email, name: profile.Name}
	}
}

func (m *AuthModel) submit() tea.Cmd {
	name := strings.TrimSpace(m.form.value(fieldName))
	email := strings.TrimSpace(m.form.value(fieldEmail))
	password := m.form.value(fieldPassword)

	switch {
	case m.signup && name == "":
		m.err = errors.New("name is required")
	case email == "":
		m.err = errors.New("email is required")
	case password == "":
		m.err = errors.New("password is required")
	case m.signup && len(password) > auth.MaxPasswordBytes:
		m.err = fmt.Errorf("password must be at most %d bytes", auth.MaxPasswordBytes)
	case m.client == nil:
		m.err = errors.New("API client not configured")
	default:
		m.err = nil
		m.loading = true
		return authCmd(m.client, m.signup, name, email, password)
	}
	return nil
}

func (m *AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authSuccessMsg:
		m.loading = false
		m.err = nil
		m.form.set(fieldPassword, "")
	case authErrorMsg:
		m.loading = false
		m.err = msg.err
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.form.next()
		case "shift+tab", "up":
			m.form.prev()
		case "enter":
			return m, m.submit()
		case "ctrl+s":
			m.setMode(!m.signup)
		case "ctrl+l":
			m.form.clear()
			m.err = nil
		default:
			m.form.edit(msg)
		}
	}
	return m, nil
}

func (m *AuthModel) View() string {
	screen, blurb, action, other := "sign in", "Check in before you start, check out when you are done.", "sign in", "new account"
	if m.signup {
		screen, blurb, action, other = "new account", "Your attendance records are visible only to you.", "create", "sign in"
	}

	var b strings.Builder
	b.WriteString(heading(screen))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(blurb))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(hintStyle.Render("Contacting server..."))
	case m.err != nil:
		b.WriteString(failStyle.Render(m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(keyHelp("tab", "next field", "enter", action, "ctrl+s", other, "ctrl+l", "clear", "esc", "quit"))

	return panelStyle.Render(b.String())
}
