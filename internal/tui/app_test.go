package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
)

func newTestApp(t *testing.T, authenticated bool) App {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.URL = "http://127.0.0.1:1"
	cfg.Server.Timeout = time.Second
	cfg.Poll.Tasks = 5 * time.Second
	cfg.Poll.Chat = 3 * time.Second
	cfg.DueSoonDays = 3

	sess := session.New(session.NewMemStore())
	if authenticated {
		if err := sess.Establish("tok", model.User{ID: 3, Username: "dev1"}); err != nil {
			t.Fatalf("establish: %v", err)
		}
	}
	client := api.New(cfg.Server.URL, cfg.Server.Timeout, sess)
	return NewApp(cfg, client, sess)
}

func TestFreshStartShowsLogin(t *testing.T) {
	a := newTestApp(t, false)
	if a.screen != screenLogin {
		t.Fatal("unauthenticated start should land on the login screen")
	}
}

func TestRestoredSessionSkipsLogin(t *testing.T) {
	a := newTestApp(t, true)
	if a.screen != screenDashboard {
		t.Fatal("restored session should land on the dashboard")
	}
	if a.Init() == nil {
		t.Fatal("dashboard start should kick off the polling loops")
	}
}

func TestRestoredSessionKeepsPolling(t *testing.T) {
	a := newTestApp(t, true)
	taskGen, chatGen := a.dash.taskGen, a.dash.chatGen

	if a.Init() == nil {
		t.Fatal("dashboard start should kick off the polling loops")
	}

	// The ticks Init scheduled carry the generations current at mount
	// time. The retained model must still match them, or the first tick
	// of each loop dies as stale and polling stops after one fetch.
	m, cmd := a.Update(taskTickMsg{gen: taskGen})
	a = m.(App)
	if cmd == nil {
		t.Fatal("first task tick after restore treated as stale")
	}
	if _, cmd := a.Update(chatTickMsg{gen: chatGen}); cmd == nil {
		t.Fatal("first chat tick after restore treated as stale")
	}
}

func TestLoginSuccessSwitchesToDashboard(t *testing.T) {
	a := newTestApp(t, false)

	m, cmd := a.Update(loginResultMsg{user: model.User{ID: 3, Username: "dev1"}})
	a = m.(App)
	if a.screen != screenDashboard {
		t.Fatal("successful login should switch to the dashboard")
	}
	if cmd == nil {
		t.Fatal("login should mount the dashboard polling loops")
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	a := newTestApp(t, true)

	m, _ := a.Update(logoutDoneMsg{})
	a = m.(App)
	if a.screen != screenLogin {
		t.Fatal("logout should return to the login screen")
	}
}

func TestQuitKey(t *testing.T) {
	a := newTestApp(t, true)
	a.width, a.height = 120, 40

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should produce a quit message")
	}
}

func TestModalBlocksGlobalKeys(t *testing.T) {
	a := newTestApp(t, true)
	a.width, a.height = 120, 40
	a.dash.chatFocused = true

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("q while typing a message must not quit")
		}
	}
}

func TestStatusMessageShownInFooter(t *testing.T) {
	a := newTestApp(t, true)

	m, _ := a.Update(statusMsg{text: "Task created"})
	a = m.(App)
	if a.status != "Task created" {
		t.Fatalf("status not recorded: %q", a.status)
	}
}
