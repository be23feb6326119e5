package model

// Task statuses as reported by the server.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusInReview   = "IN_REVIEW"
	StatusDone       = "DONE"
	StatusBlocked    = "BLOCKED"
)

// Task priorities as reported by the server.
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

var Statuses = []string{StatusTodo, StatusInProgress, StatusInReview, StatusDone, StatusBlocked}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsOnline bool   `json:"isOnline"`
}

// Task is server-owned; the client never recomputes derived fields
// (isOverdue, daysUntilDeadline), it only displays them.
type Task struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`
	AssigneeID        int64  `json:"assigneeId"`
	ReporterID        int64  `json:"reporterId"`
	ProjectKey        string `json:"projectKey"`
	Deadline          string `json:"deadline"`
	IsOverdue         bool   `json:"isOverdue"`
	DaysUntilDeadline int    `json:"daysUntilDeadline"`
}

// ChatMessage covers broadcast, private and task-scoped messages; the
// server distinguishes them by Type and the target fields.
type ChatMessage struct {
	ID            int64  `json:"id"`
	SenderID      int64  `json:"senderId"`
	SenderName    string `json:"senderName"`
	Content       string `json:"content"`
	Type          string `json:"type"`
	Timestamp     string `json:"timestamp"`
	TargetUserID  int64  `json:"targetUserId"`
	RelatedTaskID int64  `json:"relatedTaskId"`
}

// Stats is the aggregate counts payload of GET /stats.
type Stats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	InReview   int `json:"inReview"`
	Done       int `json:"done"`
	Blocked    int `json:"blocked"`
	Overdue    int `json:"overdue"`
	DueSoon    int `json:"dueSoon"`
}

// Recommendation is the server's least-loaded assignee suggestion.
type Recommendation struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Workload int    `json:"workload"`
}
