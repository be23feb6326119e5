package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
)

type loginModel struct {
	client *api.Client
	width  int
	height int

	form       *huh.Form
	submitting bool
	errText    string

	// Form field pointers (survive value copies)
	username *string
	password *string
}

func newLoginModel(client *api.Client) loginModel {
	username, password := "", ""
	m := loginModel{
		client:   client,
		username: &username,
		password: &password,
	}
	m.form = m.newForm()
	return m
}

func (m loginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(m.username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(m.password),
		),
	).WithShowHelp(false).WithShowErrors(true)
}

func (m *loginModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			// Rejected credentials show the server's message verbatim;
			// transport failures get a hint about the server instead.
			var apiErr *api.APIError
			if errors.As(msg.err, &apiErr) {
				m.errText = apiErr.Message
			} else {
				m.errText = "Connection error. Is the server running?"
			}
			*m.password = ""
			m.form = m.newForm()
			return m, m.form.Init()
		}
		return m, nil
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		username := strings.TrimSpace(*m.username)
		password := *m.password
		if username == "" {
			m.errText = "Username is required"
			m.form = m.newForm()
			return m, m.form.Init()
		}
		m.submitting = true
		m.errText = ""
		client := m.client
		return m, func() tea.Msg {
			user, err := client.Login(context.Background(), username, password)
			return loginResultMsg{user: user, err: err}
		}
	}

	return m, cmd
}

func (m loginModel) view() string {
	title := titleStyle.Render("taskdeck")
	subtitle := mutedStyle.Render("Task tracker & team chat")

	var rows []string
	rows = append(rows, title, subtitle, "")
	if m.submitting {
		rows = append(rows, mutedStyle.Render("Logging in..."))
	} else {
		rows = append(rows, m.form.View())
	}
	if m.errText != "" {
		rows = append(rows, "", errorStyle.Render(m.errText))
	}
	rows = append(rows, "", mutedStyle.Render("demo: admin/admin  pm1/pm1  dev1/dev1  tester1/tester1"))

	card := panelStyle.Width(min(m.width-4, 56)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
