package tui

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/model"
	"taskdeck/internal/scope"
	"taskdeck/internal/session"
)

// dashboardModel owns the three polling loops (tasks, broadcast chat,
// private thread) and the modal overlay. All tracker access happens in
// the update loop; commands only carry ticket values across the
// suspension point.
type dashboardModel struct {
	client *api.Client
	sess   *session.Session
	cfg    *config.Config
	width  int
	height int

	tasks  *scope.TaskList
	room   *scope.Room
	thread *scope.Thread

	// Poll loop generations. Bumping one cancels its timer chain: a
	// tick scheduled under an old generation is ignored on arrival.
	taskGen int
	chatGen int
	privGen int

	cursor int
	stats  model.Stats
	online []model.User

	chatInput   textinput.Model
	chatFocused bool

	modal   modalState
	create  createModel
	detail  detailModel
	private privateModel
}

func newDashboardModel(client *api.Client, sess *session.Session, cfg *config.Config) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 500

	return dashboardModel{
		client:    client,
		sess:      sess,
		cfg:       cfg,
		tasks:     scope.NewTaskList(model.AllTasks()),
		room:      scope.NewRoom(),
		thread:    scope.NewThread(),
		chatInput: ti,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.private.setSize(w, h)
	d.detail.setSize(w, h)
}

// mount starts both dashboard polling loops and fires the initial
// fetches. Called on login and on session restore. The loops run under
// the current generations; cancellation is unmount's job, so mounting
// never mutates the model and is safe to call from Init's value
// receiver.
func (d dashboardModel) mount() tea.Cmd {
	return tea.Batch(
		d.fetchTasks(),
		d.fetchChat(),
		d.fetchStats(),
		d.fetchOnline(),
		d.taskTick(),
		d.chatTick(),
	)
}

// unmount cancels every polling loop and drops the cached data, so a
// later login starts blank instead of flashing the previous user's
// lists. In-flight responses are discarded by their trackers when they
// land.
func (d *dashboardModel) unmount() {
	d.taskGen++
	d.chatGen++
	d.privGen++
	d.tasks.SetScope(model.AllTasks())
	d.tasks.Reset()
	d.room.Reset()
	d.thread.SetScope(0)
	d.thread.Reset()
	d.cursor = 0
	d.stats = model.Stats{}
	d.online = nil
	d.modal = modalNone
}

// --- Timers ---

func (d dashboardModel) taskTick() tea.Cmd {
	gen := d.taskGen
	return tea.Tick(d.cfg.Poll.Tasks, func(time.Time) tea.Msg {
		return taskTickMsg{gen: gen}
	})
}

func (d dashboardModel) chatTick() tea.Cmd {
	gen := d.chatGen
	return tea.Tick(d.cfg.Poll.Chat, func(time.Time) tea.Msg {
		return chatTickMsg{gen: gen}
	})
}

func (d dashboardModel) privateTick() tea.Cmd {
	gen := d.privGen
	return tea.Tick(d.cfg.Poll.Chat, func(time.Time) tea.Msg {
		return privateTickMsg{gen: gen}
	})
}

// --- Fetch commands ---

func (d dashboardModel) fetchTasks() tea.Cmd {
	ticket := d.tasks.Begin()
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tasks, err := client.TasksFor(ctx, ticket.Scope)
		return tasksMsg{ticket: ticket, tasks: tasks, err: err}
	}
}

func (d dashboardModel) fetchChat() tea.Cmd {
	ticket := d.room.Begin()
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msgs, err := client.Messages(ctx)
		return chatMsg{ticket: ticket, msgs: msgs, err: err}
	}
}

func (d dashboardModel) fetchPrivate() tea.Cmd {
	ticket := d.thread.Begin()
	if ticket.Scope == 0 {
		return nil
	}
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msgs, err := client.PrivateMessages(ctx, ticket.Scope)
		return privateMsg{ticket: ticket, msgs: msgs, err: err}
	}
}

func (d dashboardModel) fetchStats() tea.Cmd {
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stats, err := client.Stats(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

func (d dashboardModel) fetchOnline() tea.Cmd {
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		users, err := client.OnlineUsers(ctx)
		return onlineUsersMsg{users: users, err: err}
	}
}

func (d dashboardModel) fetchUsers() tea.Cmd {
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		users, err := client.Users(ctx)
		return usersMsg{users: users, err: err}
	}
}

// setFilter moves the task loop to a new view filter: the old result
// set is invalidated, the old timer chain is cancelled, and a fresh
// fetch plus a new timer start under the new scope.
func (d dashboardModel) setFilter(f model.ViewFilter) (dashboardModel, tea.Cmd) {
	if !d.tasks.SetScope(f) {
		return d, nil
	}
	d.taskGen++
	d.cursor = 0
	return d, tea.Batch(d.fetchTasks(), d.taskTick())
}

// --- Update ---

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {

	// Timers. Stale generations fall through without rescheduling.
	case taskTickMsg:
		if msg.gen != d.taskGen {
			return d, nil
		}
		return d, tea.Batch(d.fetchTasks(), d.fetchStats(), d.taskTick())

	case chatTickMsg:
		if msg.gen != d.chatGen {
			return d, nil
		}
		return d, tea.Batch(d.fetchChat(), d.fetchOnline(), d.chatTick())

	case privateTickMsg:
		if msg.gen != d.privGen {
			return d, nil
		}
		return d, tea.Batch(d.fetchPrivate(), d.privateTick())

	// Poll results. Failures are logged and swallowed; the last good
	// data stays on screen.
	case tasksMsg:
		if msg.err != nil {
			log.Printf("task poll: %v", msg.err)
			return d, nil
		}
		if accepted, changed := d.tasks.Apply(msg.ticket, msg.tasks); accepted && changed {
			if n := len(d.tasks.Items()); d.cursor >= n {
				d.cursor = max(0, n-1)
			}
			if d.modal == modalTaskDetail {
				d.detail.refreshTask(d.tasks.Items())
			}
		}
		return d, nil

	case chatMsg:
		if msg.err != nil {
			log.Printf("chat poll: %v", msg.err)
			return d, nil
		}
		d.room.Apply(msg.ticket, msg.msgs)
		return d, nil

	case privateMsg:
		if msg.err != nil {
			log.Printf("private poll: %v", msg.err)
			return d, nil
		}
		d.thread.Apply(msg.ticket, msg.msgs)
		return d, nil

	case statsMsg:
		if msg.err != nil {
			log.Printf("stats poll: %v", msg.err)
			return d, nil
		}
		d.stats = msg.stats
		return d, nil

	case onlineUsersMsg:
		if msg.err != nil {
			log.Printf("online users poll: %v", msg.err)
			return d, nil
		}
		d.online = msg.users
		return d, nil

	case usersMsg:
		switch d.modal {
		case modalPrivateChat:
			var cmd tea.Cmd
			d.private, cmd = d.private.update(msg)
			return d, cmd
		case modalTaskDetail:
			var cmd tea.Cmd
			d.detail, cmd = d.detail.update(msg)
			return d, cmd
		}
		return d, nil

	// Mutation acks: always one immediate out-of-cycle refetch.
	case taskMutatedMsg:
		if msg.err != nil {
			log.Printf("task mutation: %v", msg.err)
			return d, statusCmd("Update failed: "+msg.err.Error(), true)
		}
		return d, d.fetchTasks()

	case taskCreatedMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			d.create, cmd = d.create.update(msg)
			return d, cmd
		}
		d.modal = modalNone
		return d, tea.Batch(d.fetchTasks(), statusCmd("Task created", false))

	case commentAddedMsg:
		var cmd tea.Cmd
		d.detail, cmd = d.detail.update(msg)
		return d, cmd

	case messageSentMsg:
		if msg.err != nil {
			log.Printf("send message: %v", msg.err)
			return d, statusCmd("Send failed", true)
		}
		if msg.peerID == 0 {
			return d, d.fetchChat()
		}
		if msg.peerID == d.thread.Scope() {
			return d, d.fetchPrivate()
		}
		return d, nil

	case commentsMsg, recommendMsg:
		if d.modal == modalTaskDetail {
			var cmd tea.Cmd
			d.detail, cmd = d.detail.update(msg)
			return d, cmd
		}
		return d, nil

	case peerSelectedMsg:
		return d.selectPeer(msg.peerID)

	case tea.KeyMsg:
		return d.updateKeys(msg)
	}

	return d.updateModal(msg)
}

func (d dashboardModel) updateKeys(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	// Modal captures all input while open.
	if d.modal != modalNone {
		return d.updateModalKeys(msg)
	}

	if d.chatFocused {
		switch msg.String() {
		case "enter":
			content := d.chatInput.Value()
			if content == "" {
				return d, nil
			}
			d.chatInput.SetValue("")
			return d, d.sendBroadcast(content)
		case "esc":
			d.chatFocused = false
			d.chatInput.Blur()
			return d, nil
		}
		var cmd tea.Cmd
		d.chatInput, cmd = d.chatInput.Update(msg)
		return d, cmd
	}

	switch {
	case key.Matches(msg, keys.ViewAll):
		return d.setFilter(model.AllTasks())
	case key.Matches(msg, keys.ViewMine):
		return d.setFilter(model.MyTasks())
	case key.Matches(msg, keys.ViewOverdue):
		return d.setFilter(model.OverdueTasks())
	case key.Matches(msg, keys.ViewDueSoon):
		return d.setFilter(model.DueSoon(d.cfg.DueSoonDays))
	case key.Matches(msg, keys.NextView):
		return d.setFilter(d.nextFilter())

	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
		return d, nil
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.tasks.Items())-1 {
			d.cursor++
		}
		return d, nil

	case key.Matches(msg, keys.Status):
		if task, ok := d.selectedTask(); ok {
			next := nextIn(model.Statuses, task.Status)
			return d, d.mutateStatus(task.ID, next)
		}
		return d, nil

	case key.Matches(msg, keys.Priority):
		if task, ok := d.selectedTask(); ok {
			next := nextIn(model.Priorities, task.Priority)
			return d, d.mutatePriority(task.ID, next)
		}
		return d, nil

	case key.Matches(msg, keys.New):
		d.modal = modalCreateTask
		var cmd tea.Cmd
		d.create, cmd = newCreateModel(d.client, d.cfg)
		return d, cmd

	case key.Matches(msg, keys.Detail):
		if task, ok := d.selectedTask(); ok {
			d.modal = modalTaskDetail
			var cmd tea.Cmd
			d.detail, cmd = newDetailModel(d.client, d.cfg, task, d.width, d.height)
			return d, cmd
		}
		return d, nil

	case key.Matches(msg, keys.Private):
		d.modal = modalPrivateChat
		var cmd tea.Cmd
		d.private, cmd = newPrivateModel(d.client, d.cfg, d.sess.User(), d.thread, d.width, d.height)
		return d, cmd

	case key.Matches(msg, keys.Chat):
		d.chatFocused = true
		return d, d.chatInput.Focus()
	}

	return d, nil
}

func (d dashboardModel) updateModalKeys(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	// Escape closes any modal unless a form inside it is mid-edit and
	// handles escape itself.
	if msg.String() == "esc" && !d.modalCapturesEscape() {
		return d.closeModal()
	}
	return d.updateModal(msg)
}

func (d dashboardModel) modalCapturesEscape() bool {
	switch d.modal {
	case modalPrivateChat:
		return d.private.capturesEscape()
	case modalTaskDetail:
		return d.detail.capturesEscape()
	}
	return false
}

func (d dashboardModel) updateModal(msg tea.Msg) (dashboardModel, tea.Cmd) {
	var cmd tea.Cmd
	switch d.modal {
	case modalCreateTask:
		d.create, cmd = d.create.update(msg)
	case modalTaskDetail:
		d.detail, cmd = d.detail.update(msg)
	case modalPrivateChat:
		d.private, cmd = d.private.update(msg)
	}
	return d, cmd
}

// closeModal tears the overlay down. Closing task surfaces refetches
// the list; closing private chat cancels its polling loop.
func (d dashboardModel) closeModal() (dashboardModel, tea.Cmd) {
	closed := d.modal
	d.modal = modalNone
	switch closed {
	case modalCreateTask, modalTaskDetail:
		return d, d.fetchTasks()
	case modalPrivateChat:
		d.thread.SetScope(0)
		d.privGen++
	}
	return d, nil
}

// selectPeer points the private thread at a new peer: old timer chain
// cancelled, thread invalidated, fresh fetch and timer under the new
// scope. Responses for the previous peer can no longer land in this
// thread.
func (d dashboardModel) selectPeer(peerID int64) (dashboardModel, tea.Cmd) {
	if !d.thread.SetScope(peerID) {
		return d, nil
	}
	d.privGen++
	if peerID == 0 {
		return d, nil
	}
	return d, tea.Batch(d.fetchPrivate(), d.privateTick())
}

// capturesInput reports whether a modal or text input should see every
// key before global bindings run.
func (d dashboardModel) capturesInput() bool {
	return d.modal != modalNone || d.chatFocused
}

func (d dashboardModel) selectedTask() (model.Task, bool) {
	items := d.tasks.Items()
	if d.cursor < 0 || d.cursor >= len(items) {
		return model.Task{}, false
	}
	return items[d.cursor], true
}

func (d dashboardModel) nextFilter() model.ViewFilter {
	switch d.tasks.Scope().Kind {
	case model.ViewAll:
		return model.MyTasks()
	case model.ViewMine:
		return model.OverdueTasks()
	case model.ViewOverdue:
		return model.DueSoon(d.cfg.DueSoonDays)
	default:
		return model.AllTasks()
	}
}

// --- Mutation commands ---

func (d dashboardModel) mutateStatus(taskID int64, status string) tea.Cmd {
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.UpdateTaskStatus(ctx, taskID, status)
		return taskMutatedMsg{taskID: taskID, err: err}
	}
}

func (d dashboardModel) mutatePriority(taskID int64, priority string) tea.Cmd {
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.UpdateTaskPriority(ctx, taskID, priority)
		return taskMutatedMsg{taskID: taskID, err: err}
	}
}

func (d dashboardModel) sendBroadcast(content string) tea.Cmd {
	client := d.client
	timeout := d.cfg.Server.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.SendMessage(ctx, content)
		return messageSentMsg{peerID: 0, err: err}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
