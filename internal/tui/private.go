package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/model"
	"taskdeck/internal/scope"
)

// peerSelectedMsg tells the dashboard to repoint the private thread's
// polling loop. peerID 0 stops it.
type peerSelectedMsg struct {
	peerID int64
}

// privateModel is the private-chat modal: a peer directory and, once a
// peer is selected, the message thread for that pair. The thread cache
// itself lives on the dashboard so its polling loop survives only as
// long as the modal says it should.
type privateModel struct {
	client *api.Client
	cfg    *config.Config
	me     *model.User
	thread *scope.Thread
	width  int
	height int

	users  []model.User
	cursor int
	peer   *model.User

	input   textinput.Model
	focused bool
}

func newPrivateModel(client *api.Client, cfg *config.Config, me *model.User, thread *scope.Thread, w, h int) (privateModel, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 500

	m := privateModel{
		client: client,
		cfg:    cfg,
		me:     me,
		thread: thread,
		width:  w,
		height: h,
		input:  ti,
	}
	return m, fetchDirectory(client, cfg)
}

func (m *privateModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m privateModel) capturesEscape() bool {
	return m.focused || m.peer != nil
}

func (m privateModel) update(msg tea.Msg) (privateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersMsg:
		if msg.err != nil {
			return m, nil
		}
		m.users = m.users[:0]
		for _, u := range msg.users {
			if m.me != nil && u.ID == m.me.ID {
				continue
			}
			m.users = append(m.users, u)
		}
		if m.cursor >= len(m.users) {
			m.cursor = max(0, len(m.users)-1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m privateModel) updateKeys(msg tea.KeyMsg) (privateModel, tea.Cmd) {
	if m.focused {
		switch msg.String() {
		case "enter":
			content := strings.TrimSpace(m.input.Value())
			if content == "" || m.peer == nil {
				return m, nil
			}
			m.input.SetValue("")
			return m, m.send(m.peer.ID, content)
		case "esc":
			m.focused = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.peer != nil {
		switch {
		case key.Matches(msg, keys.Back):
			// Back to the peer list; the thread's polling loop stops.
			m.peer = nil
			return m, func() tea.Msg { return peerSelectedMsg{peerID: 0} }
		case key.Matches(msg, keys.Chat), key.Matches(msg, keys.Enter):
			m.focused = true
			return m, m.input.Focus()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(m.users) {
			peer := m.users[m.cursor]
			m.peer = &peer
			return m, func() tea.Msg { return peerSelectedMsg{peerID: peer.ID} }
		}
	}
	return m, nil
}

func (m privateModel) send(peerID int64, content string) tea.Cmd {
	client := m.client
	timeout := m.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.SendPrivateMessage(ctx, peerID, content)
		return messageSentMsg{peerID: peerID, err: err}
	}
}

// --- View ---

func (m privateModel) view() string {
	w := min(m.width-4, 80)

	if m.peer == nil {
		return m.renderPeerList(w)
	}
	return m.renderThread(w)
}

func (m privateModel) renderPeerList(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Private Messages"), "")

	if len(m.users) == 0 {
		rows = append(rows, mutedStyle.Render("No other users"))
	}
	for i, u := range m.users {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		online := "  "
		if u.IsOnline {
			online = successStyle.Render("● ")
		}
		rows = append(rows, online+style.Render(fmt.Sprintf("%s%s (%s)", cursor, u.Username, u.Role)))
	}
	rows = append(rows, "", mutedStyle.Render("enter: open thread  esc: close"))

	card := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m privateModel) renderThread(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Chat with "+m.peer.Username), "")

	msgs := m.thread.Items()
	visible := m.height - 10
	if visible < 3 {
		visible = 3
	}
	start := 0
	if len(msgs) > visible {
		start = len(msgs) - visible
	}
	if len(msgs) == 0 {
		if m.thread.Loading() {
			rows = append(rows, mutedStyle.Render("Loading..."))
		} else {
			rows = append(rows, mutedStyle.Render("No messages yet. Start the conversation!"))
		}
	}
	me := int64(0)
	if m.me != nil {
		me = m.me.ID
	}
	for _, msg := range msgs[start:] {
		sender := highlightStyle.Render(msg.SenderName)
		if msg.SenderID == me {
			sender = ownMessageStyle.Render("you")
		}
		rows = append(rows, fmt.Sprintf("%s %s %s",
			mutedStyle.Render(formatClock(msg.Timestamp)), sender, msg.Content))
	}

	rows = append(rows, "")
	if m.focused {
		rows = append(rows, m.input.View())
	} else {
		rows = append(rows, mutedStyle.Render("m: write  esc: back to users"))
	}

	card := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
