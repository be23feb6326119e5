package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/model"
)

func (d dashboardModel) view() string {
	if d.width < 40 {
		return "Terminal too small"
	}

	switch d.modal {
	case modalCreateTask:
		return d.create.view(d.width)
	case modalTaskDetail:
		return d.detail.view()
	case modalPrivateChat:
		return d.private.view()
	}

	leftWidth := d.width * 3 / 5
	rightWidth := d.width - leftWidth - 2

	left := d.renderTasksPanel(leftWidth)
	right := lipgloss.JoinVertical(lipgloss.Left,
		d.renderStatsPanel(rightWidth),
		d.renderChatPanel(rightWidth),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (d dashboardModel) renderTasksPanel(w int) string {
	tabs := d.renderFilterTabs()

	var rows []string
	rows = append(rows, tabs, "")

	items := d.tasks.Items()
	if len(items) == 0 {
		if d.tasks.Loading() {
			rows = append(rows, mutedStyle.Render("  Loading tasks..."))
		} else {
			rows = append(rows, mutedStyle.Render("  No tasks found"))
		}
	}

	visible := d.height - 10
	if visible < 3 {
		visible = 3
	}
	start := 0
	if d.cursor >= visible {
		start = d.cursor - visible + 1
	}
	for i := start; i < len(items) && i < start+visible; i++ {
		rows = append(rows, d.renderTaskRow(items[i], i == d.cursor, w))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: detail  s: status  y: priority  e: export"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderFilterTabs() string {
	current := d.tasks.Scope()
	filters := []model.ViewFilter{
		model.AllTasks(),
		model.MyTasks(),
		model.OverdueTasks(),
		model.DueSoon(d.cfg.DueSoonDays),
	}
	var tabs []string
	for _, f := range filters {
		if f.Kind == current.Kind {
			tabs = append(tabs, activeTabStyle.Render(f.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(f.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (d dashboardModel) renderTaskRow(t model.Task, selected bool, w int) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	title := t.Title
	maxTitle := w - 40
	if r := []rune(title); maxTitle > 4 && len(r) > maxTitle {
		title = string(r[:maxTitle-1]) + "…"
	}

	deadline := t.Deadline
	if t.IsOverdue {
		deadline = errorStyle.Render(deadline + " (overdue)")
	} else if t.DaysUntilDeadline <= d.cfg.DueSoonDays {
		deadline = warningStyle.Render(fmt.Sprintf("%s (%dd)", deadline, t.DaysUntilDeadline))
	} else {
		deadline = mutedStyle.Render(deadline)
	}

	return fmt.Sprintf("%s%s %s %s  %s",
		cursor,
		priorityDot(t.Priority),
		style.Render(title),
		statusBadge(t.Status),
		deadline,
	)
}

func (d dashboardModel) renderChatPanel(w int) string {
	title := titleStyle.Render("Team Chat")

	online := ""
	if len(d.online) > 0 {
		var names []string
		for _, u := range d.online {
			names = append(names, u.Username)
		}
		online = successStyle.Render("● ") + mutedStyle.Render(strings.Join(names, ", "))
	}

	var rows []string
	rows = append(rows, title)
	if online != "" {
		rows = append(rows, online)
	}
	rows = append(rows, "")

	msgs := d.room.Items()
	visible := d.height/2 - 8
	if visible < 3 {
		visible = 3
	}
	start := 0
	if len(msgs) > visible {
		start = len(msgs) - visible
	}
	if len(msgs) == 0 {
		rows = append(rows, mutedStyle.Render("No messages yet"))
	}
	me := int64(0)
	if u := d.sess.User(); u != nil {
		me = u.ID
	}
	for _, m := range msgs[start:] {
		sender := highlightStyle.Render(m.SenderName)
		if m.SenderID == me {
			sender = ownMessageStyle.Render("you")
		}
		rows = append(rows, fmt.Sprintf("%s %s %s",
			mutedStyle.Render(formatClock(m.Timestamp)), sender, m.Content))
	}

	rows = append(rows, "")
	if d.chatFocused {
		rows = append(rows, d.chatInput.View())
	} else {
		rows = append(rows, mutedStyle.Render("m: write message"))
	}

	style := panelStyle
	if d.chatFocused {
		style = activePanelStyle
	}
	return style.Width(w).Render(strings.Join(rows, "\n"))
}
