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
)

// detailModel is the task-detail modal: full task fields, the comment
// thread, and the mutation actions (status, priority, assignee). Its
// mutations are acked to the dashboard, which refetches the list; the
// updated task flows back in through refreshTask.
type detailModel struct {
	client *api.Client
	cfg    *config.Config
	width  int
	height int

	task           model.Task
	comments       []string
	commentsLoaded bool
	users          []model.User

	picking    bool // assignee picker overlay
	pickCursor int

	commentInput textinput.Model
	commenting   bool
	submitting   bool

	rec     *model.Recommendation
	errText string
}

func newDetailModel(client *api.Client, cfg *config.Config, task model.Task, w, h int) (detailModel, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "Add a comment..."
	ti.CharLimit = 500

	m := detailModel{
		client:       client,
		cfg:          cfg,
		width:        w,
		height:       h,
		task:         task,
		commentInput: ti,
	}
	return m, tea.Batch(m.fetchComments(), fetchDirectory(client, cfg))
}

func (m *detailModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// refreshTask picks the current server copy of the task out of a fresh
// list fetch, so the modal tracks mutations without its own poll loop.
func (m *detailModel) refreshTask(tasks []model.Task) {
	for _, t := range tasks {
		if t.ID == m.task.ID {
			m.task = t
			return
		}
	}
}

func (m detailModel) capturesEscape() bool {
	return m.commenting || m.picking
}

func (m detailModel) fetchComments() tea.Cmd {
	client := m.client
	timeout := m.cfg.Server.Timeout
	taskID := m.task.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		comments, err := client.TaskComments(ctx, taskID)
		return commentsMsg{taskID: taskID, comments: comments, err: err}
	}
}

func fetchDirectory(client *api.Client, cfg *config.Config) tea.Cmd {
	timeout := cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		users, err := client.Users(ctx)
		return usersMsg{users: users, err: err}
	}
}

func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case commentsMsg:
		if msg.taskID != m.task.ID {
			return m, nil
		}
		if msg.err != nil {
			m.errText = "Failed to load comments"
			return m, nil
		}
		m.comments = msg.comments
		m.commentsLoaded = true
		return m, nil

	case usersMsg:
		if msg.err == nil {
			m.users = msg.users
		}
		return m, nil

	case recommendMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		rec := msg.rec
		m.rec = &rec
		return m, nil

	case commentAddedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = "Failed to add comment"
			return m, nil
		}
		m.commentInput.SetValue("")
		return m, m.fetchComments()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m detailModel) updateKeys(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.commenting {
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.commentInput.Value())
			if text == "" || m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, m.addComment(text)
		case "esc":
			m.commenting = false
			m.commentInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}

	if m.picking {
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, keys.Status):
		next := nextIn(model.Statuses, m.task.Status)
		return m, m.mutate("status", next)
	case key.Matches(msg, keys.Priority):
		next := nextIn(model.Priorities, m.task.Priority)
		return m, m.mutate("priority", next)
	case key.Matches(msg, keys.Assign):
		if len(m.users) == 0 {
			return m, nil
		}
		m.picking = true
		m.pickCursor = 0
		if m.rec != nil {
			for i, u := range m.users {
				if u.ID == m.rec.UserID {
					m.pickCursor = i
					break
				}
			}
		}
		return m, nil
	case key.Matches(msg, keys.Recommend):
		client := m.client
		timeout := m.cfg.Server.Timeout
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			rec, err := client.RecommendAssignee(ctx)
			return recommendMsg{rec: rec, err: err}
		}
	case key.Matches(msg, keys.Comment):
		m.commenting = true
		return m, m.commentInput.Focus()
	}
	return m, nil
}

func (m detailModel) updatePicker(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.pickCursor < len(m.users)-1 {
			m.pickCursor++
		}
	case key.Matches(msg, keys.Enter):
		u := m.users[m.pickCursor]
		m.picking = false
		return m, m.assign(u.ID)
	case key.Matches(msg, keys.Back):
		m.picking = false
	}
	return m, nil
}

// --- Mutation commands ---

func (m detailModel) mutate(field, value string) tea.Cmd {
	client := m.client
	timeout := m.cfg.Server.Timeout
	taskID := m.task.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		if field == "status" {
			err = client.UpdateTaskStatus(ctx, taskID, value)
		} else {
			err = client.UpdateTaskPriority(ctx, taskID, value)
		}
		return taskMutatedMsg{taskID: taskID, err: err}
	}
}

func (m detailModel) assign(assigneeID int64) tea.Cmd {
	client := m.client
	timeout := m.cfg.Server.Timeout
	taskID := m.task.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.AssignTask(ctx, taskID, assigneeID)
		return taskMutatedMsg{taskID: taskID, err: err}
	}
}

func (m detailModel) addComment(text string) tea.Cmd {
	client := m.client
	timeout := m.cfg.Server.Timeout
	taskID := m.task.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.AddTaskComment(ctx, taskID, text)
		return commentAddedMsg{taskID: taskID, err: err}
	}
}

// --- View ---

func (m detailModel) view() string {
	w := min(m.width-4, 90)

	if m.picking {
		return m.renderPicker(w)
	}

	var rows []string
	rows = append(rows, titleStyle.Render(m.task.Title))
	if m.task.Description != "" {
		rows = append(rows, mutedStyle.Render(m.task.Description))
	}
	rows = append(rows, "")

	deadline := m.task.Deadline
	if m.task.IsOverdue {
		deadline = errorStyle.Render(deadline + " (overdue)")
	}
	rows = append(rows,
		fmt.Sprintf("Status:    %s", statusBadge(m.task.Status)),
		fmt.Sprintf("Priority:  %s %s", priorityDot(m.task.Priority), m.task.Priority),
		fmt.Sprintf("Assignee:  %s", m.assigneeName()),
		fmt.Sprintf("Deadline:  %s  (%d days left)", deadline, m.task.DaysUntilDeadline),
	)

	if m.rec != nil {
		rows = append(rows, "", highlightStyle.Render(
			fmt.Sprintf("Suggested assignee: %s (%d active tasks), press a to pick",
				m.rec.Username, m.rec.Workload)))
	}

	rows = append(rows, "", titleStyle.Render(fmt.Sprintf("Comments (%d)", len(m.comments))))
	switch {
	case !m.commentsLoaded:
		rows = append(rows, mutedStyle.Render("Loading comments..."))
	case len(m.comments) == 0:
		rows = append(rows, mutedStyle.Render("No comments yet"))
	default:
		for _, c := range m.comments {
			rows = append(rows, "  "+c)
		}
	}

	rows = append(rows, "")
	if m.commenting {
		rows = append(rows, m.commentInput.View())
	} else {
		rows = append(rows, mutedStyle.Render("s: status  y: priority  a: assign  r: suggest  c: comment  esc: close"))
	}
	if m.errText != "" {
		rows = append(rows, "", errorStyle.Render(m.errText))
	}

	card := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m detailModel) assigneeName() string {
	if m.task.AssigneeID == 0 {
		return mutedStyle.Render("unassigned")
	}
	for _, u := range m.users {
		if u.ID == m.task.AssigneeID {
			return u.Username
		}
	}
	return fmt.Sprintf("#%d", m.task.AssigneeID)
}

func (m detailModel) renderPicker(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Assign To"), "")
	for i, u := range m.users {
		cursor := "  "
		style := normalItemStyle
		if i == m.pickCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := fmt.Sprintf("%s%s (%s)", cursor, u.Username, u.Role)
		if m.rec != nil && u.ID == m.rec.UserID {
			label += highlightStyle.Render("  ★ suggested")
		}
		rows = append(rows, style.Render(label))
	}
	rows = append(rows, "", mutedStyle.Render("enter: assign  esc: cancel"))

	card := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
