package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New(session.NewMemStore())
	return New(srv.URL, 5*time.Second, sess), sess
}

func writeEnvelope(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeRejection(w http.ResponseWriter, msg string) {
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// ============================================================
// Authentication
// ============================================================

func TestLoginEstablishesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "dev1" || body["password"] != "dev1" {
			writeRejection(w, "Invalid username or password")
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok-dev1",
			"user":    model.User{ID: 3, Username: "dev1", Role: "DEVELOPER"},
		})
	})
	client, sess := newTestClient(t, mux)

	user, err := client.Login(context.Background(), "dev1", "dev1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "dev1" {
		t.Fatalf("want user dev1, got %+v", user)
	}
	if !sess.Authenticated() || sess.Token() != "tok-dev1" {
		t.Fatal("login did not establish the session")
	}
}

func TestLoginRejectedKeepsSessionUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeRejection(w, "Invalid username or password")
	})
	client, sess := newTestClient(t, mux)

	_, err := client.Login(context.Background(), "dev1", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "Invalid username or password" {
		t.Fatalf("server message not passed through: %q", apiErr.Message)
	}
	if sess.Authenticated() {
		t.Fatal("rejected login must not authenticate")
	}
}

func TestLogoutClearsSessionOnTransportFailure(t *testing.T) {
	sess := session.New(session.NewMemStore())
	if err := sess.Establish("tok", model.User{ID: 1, Username: "admin"}); err != nil {
		t.Fatalf("establish: %v", err)
	}
	// No server is listening on this port.
	client := New("http://127.0.0.1:1", time.Second, sess)

	err := client.Logout(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("want TransportError, got %T: %v", err, err)
	}
	if sess.Authenticated() {
		t.Fatal("session must be cleared even when the server is unreachable")
	}
}

// ============================================================
// Request shaping
// ============================================================

func TestBearerHeaderAttachedWhenAuthenticated(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeEnvelope(w, []model.Task{})
	})
	client, sess := newTestClient(t, mux)
	if err := sess.Establish("tok-123", model.User{ID: 1}); err != nil {
		t.Fatalf("establish: %v", err)
	}

	if _, err := client.Tasks(context.Background()); err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("want bearer header, got %q", got)
	}
}

func TestNoBearerHeaderWhenAnonymous(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeEnvelope(w, []model.Task{})
	})
	client, _ := newTestClient(t, mux)

	if _, err := client.Tasks(context.Background()); err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if got != "" {
		t.Fatalf("anonymous request carried auth header %q", got)
	}
}

func TestViewFilterDispatch(t *testing.T) {
	var paths []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		writeEnvelope(w, []model.Task{})
	})
	client, _ := newTestClient(t, mux)

	filters := []model.ViewFilter{
		model.AllTasks(),
		model.MyTasks(),
		model.OverdueTasks(),
		model.DueSoon(3),
	}
	for _, f := range filters {
		if _, err := client.TasksFor(context.Background(), f); err != nil {
			t.Fatalf("TasksFor(%v): %v", f, err)
		}
	}

	want := []string{"/tasks", "/tasks/my", "/tasks/overdue", "/tasks/due-soon?days=3"}
	if len(paths) != len(want) {
		t.Fatalf("want %d requests, got %v", len(want), paths)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("filter %d: want %s, got %s", i, p, paths[i])
		}
	}
}

func TestMutationBodies(t *testing.T) {
	bodies := map[string]map[string]any{}
	mux := http.NewServeMux()
	record := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		bodies[r.Method+" "+r.URL.Path] = body
		writeEnvelope(w, nil)
	}
	mux.HandleFunc("PUT /tasks/7/status", record)
	mux.HandleFunc("PUT /tasks/7/priority", record)
	mux.HandleFunc("PUT /tasks/7/assign", record)
	mux.HandleFunc("POST /tasks/7/comments", record)
	mux.HandleFunc("POST /chat", record)
	mux.HandleFunc("POST /chat/private", record)
	client, _ := newTestClient(t, mux)

	ctx := context.Background()
	if err := client.UpdateTaskStatus(ctx, 7, model.StatusInProgress); err != nil {
		t.Fatalf("status: %v", err)
	}
	if err := client.UpdateTaskPriority(ctx, 7, model.PriorityHigh); err != nil {
		t.Fatalf("priority: %v", err)
	}
	if err := client.AssignTask(ctx, 7, 4); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := client.AddTaskComment(ctx, 7, "looks good"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := client.SendMessage(ctx, "hello team"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if err := client.SendPrivateMessage(ctx, 2, "hey"); err != nil {
		t.Fatalf("private: %v", err)
	}

	if got := bodies["PUT /tasks/7/status"]["status"]; got != "IN_PROGRESS" {
		t.Fatalf("status body: %v", got)
	}
	if got := bodies["PUT /tasks/7/priority"]["priority"]; got != "HIGH" {
		t.Fatalf("priority body: %v", got)
	}
	if got := bodies["PUT /tasks/7/assign"]["assigneeId"]; got != float64(4) {
		t.Fatalf("assign body: %v", got)
	}
	if got := bodies["POST /tasks/7/comments"]["comment"]; got != "looks good" {
		t.Fatalf("comment body: %v", got)
	}
	if got := bodies["POST /chat"]["content"]; got != "hello team" {
		t.Fatalf("chat body: %v", got)
	}
	pm := bodies["POST /chat/private"]
	if pm["targetUserId"] != float64(2) || pm["content"] != "hey" {
		t.Fatalf("private body: %v", pm)
	}
}

func TestStatusAndProjectListings(t *testing.T) {
	var paths []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks/by-status/{status}", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeEnvelope(w, []model.Task{{ID: 5, Status: r.PathValue("status")}})
	})
	mux.HandleFunc("GET /tasks/by-project/{key}", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeEnvelope(w, []model.Task{{ID: 6, ProjectKey: r.PathValue("key")}})
	})
	client, _ := newTestClient(t, mux)

	tasks, err := client.TasksByStatus(context.Background(), model.StatusBlocked)
	if err != nil {
		t.Fatalf("by-status: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != model.StatusBlocked {
		t.Fatalf("by-status decode: %+v", tasks)
	}

	tasks, err = client.TasksByProject(context.Background(), "TRK")
	if err != nil {
		t.Fatalf("by-project: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ProjectKey != "TRK" {
		t.Fatalf("by-project decode: %+v", tasks)
	}

	want := []string{"/tasks/by-status/BLOCKED", "/tasks/by-project/TRK"}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("path %d: want %s, got %s", i, p, paths[i])
		}
	}
}

func TestTaskMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks/7/messages", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []model.ChatMessage{{ID: 12, Content: "about this task", RelatedTaskID: 7}})
	})
	client, _ := newTestClient(t, mux)

	msgs, err := client.TaskMessages(context.Background(), 7)
	if err != nil {
		t.Fatalf("task messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].RelatedTaskID != 7 {
		t.Fatalf("task messages decode: %+v", msgs)
	}
}

func TestDashboardText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]string{"dashboard": "3 tasks open"})
	})
	client, _ := newTestClient(t, mux)

	text, err := client.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if text != "3 tasks open" {
		t.Fatalf("dashboard decode: %q", text)
	}
}

// ============================================================
// Error classification
// ============================================================

func TestServerRejectionIsAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		writeRejection(w, "Unauthorized")
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Tasks(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "Unauthorized" {
		t.Fatalf("want server message, got %q", apiErr.Message)
	}
}

func TestMalformedResponseIsTransportError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Tasks(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("want TransportError, got %T: %v", err, err)
	}
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	sess := session.New(session.NewMemStore())
	client := New("http://127.0.0.1:1", time.Second, sess)

	_, err := client.Tasks(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("want TransportError, got %T: %v", err, err)
	}
}

// ============================================================
// Response decoding
// ============================================================

func TestTaskDecoding(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{
			"id":12,"title":"Fix login","description":"500 on bad creds",
			"status":"IN_REVIEW","priority":"CRITICAL","assigneeId":3,
			"reporterId":2,"projectKey":"TRK","deadline":"2026-09-05",
			"isOverdue":false,"daysUntilDeadline":5}]}`))
	})
	client, _ := newTestClient(t, mux)

	tasks, err := client.Tasks(context.Background())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("want 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.ID != 12 || task.Status != model.StatusInReview || task.Priority != model.PriorityCritical {
		t.Fatalf("decoded task mismatch: %+v", task)
	}
	if task.DaysUntilDeadline != 5 || task.IsOverdue {
		t.Fatalf("deadline fields mismatch: %+v", task)
	}
}

func TestStatsAndRecommendation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, model.Stats{Total: 10, Todo: 4, InProgress: 3, Done: 2, Blocked: 1, Overdue: 2})
	})
	mux.HandleFunc("GET /tasks/recommend-assignee", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, model.Recommendation{UserID: 4, Username: "tester1", Workload: 1})
	})
	client, _ := newTestClient(t, mux)

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 10 || stats.Overdue != 2 {
		t.Fatalf("stats mismatch: %+v", stats)
	}

	rec, err := client.RecommendAssignee(context.Background())
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.UserID != 4 || rec.Username != "tester1" {
		t.Fatalf("recommendation mismatch: %+v", rec)
	}
}

func TestCreateTaskReturnsCreated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["deadlineDays"] != float64(7) {
			writeRejection(w, "bad deadline")
			return
		}
		writeEnvelope(w, model.Task{ID: 99, Title: body["title"].(string), Status: model.StatusTodo})
	})
	client, _ := newTestClient(t, mux)

	task, err := client.CreateTask(context.Background(), "New task", "desc", 7)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID != 99 || task.Status != model.StatusTodo {
		t.Fatalf("created task mismatch: %+v", task)
	}
}
