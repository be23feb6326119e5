package tui

import (
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/scope"
)

// screen is the top-level surface: login until authenticated, then the
// dashboard.
type screen int

const (
	screenLogin screen = iota
	screenDashboard
)

// modalState is the mutually-exclusive overlay on the dashboard. At
// most one is active; opening one implicitly closes any other.
type modalState int

const (
	modalNone modalState = iota
	modalCreateTask
	modalTaskDetail
	modalPrivateChat
)

// --- Poll timer messages ---
//
// Every tick carries the generation it was scheduled under. A tick for
// a stale generation neither fires a fetch nor reschedules, which is
// how a polling loop is cancelled deterministically.

type taskTickMsg struct{ gen int }
type chatTickMsg struct{ gen int }
type privateTickMsg struct{ gen int }

// --- Data messages ---
//
// Fetch results carry the ticket captured at request time; the tracker
// decides at arrival whether the response is still relevant.

type tasksMsg struct {
	ticket scope.Ticket[model.ViewFilter]
	tasks  []model.Task
	err    error
}

type chatMsg struct {
	ticket scope.Ticket[struct{}]
	msgs   []model.ChatMessage
	err    error
}

type privateMsg struct {
	ticket scope.Ticket[int64]
	msgs   []model.ChatMessage
	err    error
}

type onlineUsersMsg struct {
	users []model.User
	err   error
}

type usersMsg struct {
	users []model.User
	err   error
}

type statsMsg struct {
	stats model.Stats
	err   error
}

type commentsMsg struct {
	taskID   int64
	comments []string
	err      error
}

type recommendMsg struct {
	rec model.Recommendation
	err error
}

// --- Auth messages ---

type loginResultMsg struct {
	user model.User
	err  error
}

type logoutDoneMsg struct{}

// --- Mutation acknowledgments ---
//
// Mutations never touch local state; each ack triggers one immediate
// out-of-cycle refetch of the affected data.

type taskMutatedMsg struct {
	taskID int64
	err    error
}

type taskCreatedMsg struct {
	task model.Task
	err  error
}

type commentAddedMsg struct {
	taskID int64
	err    error
}

type messageSentMsg struct {
	peerID int64 // 0 = broadcast
	err    error
}

type exportDoneMsg struct {
	path string
}

type statusMsg struct {
	text    string
	isError bool
}

// --- Helpers ---

func formatClock(timestamp string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, timestamp); err == nil {
			return t.Local().Format("15:04")
		}
	}
	return timestamp
}

// nextIn returns the entry after current in ring order.
func nextIn(ring []string, current string) string {
	for i, v := range ring {
		if v == current {
			return ring[(i+1)%len(ring)]
		}
	}
	return ring[0]
}
