package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"taskdeck/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "Fix login", Status: model.StatusInProgress, Priority: model.PriorityHigh, AssigneeID: 3, Deadline: "2026-09-05", DaysUntilDeadline: 5},
		{ID: 2, Title: "Write docs", Status: model.StatusTodo, Priority: model.PriorityLow, AssigneeID: 0, Deadline: "2026-08-20", DaysUntilDeadline: -11, IsOverdue: true},
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := ToCSV(sampleTasks(), path); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][7] != "Overdue" {
		t.Fatalf("header mismatch: %v", rows[0])
	}
	if rows[1][1] != "Fix login" || rows[1][2] != "IN_PROGRESS" {
		t.Fatalf("row mismatch: %v", rows[1])
	}
	if rows[2][7] != "true" {
		t.Fatalf("overdue flag not recorded: %v", rows[2])
	}
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := ToJSON(sampleTasks(), "overdue", path); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.View != "overdue" {
		t.Fatalf("view label: %q", got.View)
	}
	if got.Count != 2 || len(got.Tasks) != 2 {
		t.Fatalf("count mismatch: count=%d tasks=%d", got.Count, len(got.Tasks))
	}
	if got.ExportedAt == "" {
		t.Fatal("exported_at missing")
	}
	if got.Tasks[1].IsOverdue != true {
		t.Fatalf("task fields lost: %+v", got.Tasks[1])
	}
}

func TestEmptyExport(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "empty.csv")
	if err := ToCSV(nil, csvPath); err != nil {
		t.Fatalf("csv: %v", err)
	}
	jsonPath := filepath.Join(dir, "empty.json")
	if err := ToJSON(nil, "all", jsonPath); err != nil {
		t.Fatalf("json: %v", err)
	}

	var got jsonExport
	data, _ := os.ReadFile(jsonPath)
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Count != 0 {
		t.Fatalf("empty export count: %d", got.Count)
	}
}
