package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
)

// createModel is the create-task modal. The server fills in everything
// not asked for here: new tasks come back as TODO/MEDIUM with the
// deadline resolved from deadlineDays.
type createModel struct {
	client *api.Client
	cfg    *config.Config

	form       *huh.Form
	submitting bool
	errText    string

	// Form field pointers (survive value copies)
	title       *string
	description *string
	deadline    *string
}

func newCreateModel(client *api.Client, cfg *config.Config) (createModel, tea.Cmd) {
	title, description, deadline := "", "", "7"
	m := createModel{
		client:      client,
		cfg:         cfg,
		title:       &title,
		description: &description,
		deadline:    &deadline,
	}
	m.form = m.newForm()
	return m, m.form.Init()
}

func (m createModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().Title("Description").Value(m.description),
			huh.NewInput().Title("Deadline (days from now)").Value(m.deadline).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > 365 {
						return fmt.Errorf("enter a number between 1 and 365")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m createModel) update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case taskCreatedMsg:
		// Success closes the modal at the dashboard level; only the
		// failure path comes back here.
		m.submitting = false
		if msg.err != nil {
			m.errText = msg.err.Error()
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
		m.submitting = true
		m.errText = ""
		title := strings.TrimSpace(*m.title)
		description := strings.TrimSpace(*m.description)
		days, _ := strconv.Atoi(strings.TrimSpace(*m.deadline))

		client := m.client
		timeout := m.cfg.Server.Timeout
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			task, err := client.CreateTask(ctx, title, description, days)
			return taskCreatedMsg{task: task, err: err}
		}
	}

	return m, cmd
}

func (m createModel) view(width int) string {
	title := titleStyle.Render("New Task")

	var rows []string
	rows = append(rows, title, "")
	if m.submitting {
		rows = append(rows, mutedStyle.Render("Creating..."))
	} else {
		rows = append(rows, m.form.View())
	}
	if m.errText != "" {
		rows = append(rows, "", errorStyle.Render(m.errText))
	}
	rows = append(rows, "", mutedStyle.Render("esc: cancel"))

	return activePanelStyle.Width(min(width-4, 72)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
