package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/export"
	"taskdeck/internal/session"
)

// App is the root Bubble Tea model. It gates everything behind the
// session: the login surface is the only thing rendered while
// unauthenticated, so no two logins can race.
type App struct {
	cfg    *config.Config
	client *api.Client
	sess   *session.Session
	width  int
	height int

	screen        screen
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login loginModel
	dash  dashboardModel

	help   help.Model
	status string
}

func NewApp(cfg *config.Config, client *api.Client, sess *session.Session) App {
	h := help.New()
	h.ShowAll = false

	scr := screenLogin
	if sess.Authenticated() {
		scr = screenDashboard
	}

	return App{
		cfg:    cfg,
		client: client,
		sess:   sess,
		screen: scr,
		login:  newLoginModel(client),
		dash:   newDashboardModel(client, sess, cfg),
		help:   h,
	}
}

func (a App) Init() tea.Cmd {
	if a.screen == screenDashboard {
		return a.dash.mount()
	}
	return a.login.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dash.setSize(a.width, contentHeight)
		return a, nil

	case loginResultMsg:
		if msg.err == nil {
			a.screen = screenDashboard
			a.status = "Welcome, " + msg.user.Username
			return a, a.dash.mount()
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd

	case logoutDoneMsg:
		a.screen = screenLogin
		a.status = ""
		a.login = newLoginModel(a.client)
		return a, a.login.Init()

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		if a.screen == screenLogin {
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Modal forms and text inputs capture input first.
		if !a.dash.capturesInput() {
			switch {
			case key.Matches(msg, keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, keys.Help):
				a.showHelp = !a.showHelp
				a.help.ShowAll = a.showHelp
				return a, nil
			case key.Matches(msg, keys.Export):
				a.exportPicking = true
				a.exportCursor = 0
				return a, nil
			case key.Matches(msg, keys.Logout):
				return a.logout()
			}
		}

		var cmd tea.Cmd
		a.dash, cmd = a.dash.update(msg)
		return a, cmd
	}

	// Everything else (ticks, fetch results, acks) routes by screen.
	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.update(msg)
	case screenDashboard:
		a.dash, cmd = a.dash.update(msg)
	}
	return a, cmd
}

// logout cancels the polling loops first, then notifies the server
// best-effort; the session is cleared regardless of the outcome.
func (a App) logout() (tea.Model, tea.Cmd) {
	a.dash.unmount()
	client := a.client
	timeout := a.cfg.Server.Timeout
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client.Logout(ctx)
		return logoutDoneMsg{}
	}
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	tasks := a.dash.tasks.Items()
	label := a.dash.tasks.Scope().String()
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		var err error
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("taskdeck-tasks-%s.csv", dateStr))
			err = export.ToCSV(tasks, path)
		} else {
			path = filepath.Join(home, fmt.Sprintf("taskdeck-tasks-%s.json", dateStr))
			err = export.ToJSON(tasks, label, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.screen == screenLogin {
		return a.login.view()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	content := a.dash.view()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("taskdeck")

	who := ""
	if u := a.sess.User(); u != nil {
		who = mutedStyle.Render(fmt.Sprintf("%s (%s)", u.Username, u.Role))
	}

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(who) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, who),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Tasks")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
